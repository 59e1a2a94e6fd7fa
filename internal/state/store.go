package state

import (
	"log/slog"
	"sync"

	"github.com/roach88/rollforward/internal/model"
)

// Observer receives dispatch notifications, typically for metrics.
type Observer interface {
	ObserveDispatch(action string, section Section)
	ObserveStaleWrite(section Section)
}

// Store holds one editing session's planning model.
//
// Thread-safety model:
//   - All methods are safe to call from any goroutine (mutex-guarded)
//   - Dispatch applies actions in call order; there is no interleaving
//   - Lost updates between editors are detected only through DispatchIf
//
// INVARIANTS:
//   - Callers never share maps with the store (copies in, copies out)
//   - versions[s] is the clock stamp of the last write to section s
//   - version is the stamp of the last write to any section
type Store struct {
	mu       sync.RWMutex
	state    State
	versions map[Section]int64
	version  int64

	clock    Clock
	observer Observer
	logger   *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the clock that issues version stamps.
// Default: a fresh LogicalClock.
func WithClock(c Clock) Option {
	return func(s *Store) {
		s.clock = c
	}
}

// WithObserver registers a dispatch observer.
func WithObserver(o Observer) Option {
	return func(s *Store) {
		s.observer = o
	}
}

// WithLogger sets the logger used for dispatch records.
// Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		s.logger = l
	}
}

// New creates a store holding the empty initial state. All versions start at 0.
func New(opts ...Option) *Store {
	s := &Store{
		state:    Empty(),
		versions: make(map[Section]int64, len(Sections)),
		clock:    NewLogicalClock(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dispatch applies an action unconditionally and returns the new version stamp.
// Dispatch never fails.
func (s *Store) Dispatch(a Action) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.apply(a)
}

// DispatchIf applies an action only if the target section is still at the
// expected version. LoadModel and Reset compare against the store version.
// On mismatch the state is unchanged and a STALE_WRITE error is returned.
func (s *Store) DispatchIf(a Action, expected int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sec := a.Section()
	actual := s.versionLocked(sec)
	if actual != expected {
		s.logger.Debug("stale dispatch rejected",
			"action", a.Name(),
			"section", sec,
			"expected", expected,
			"actual", actual,
		)
		if s.observer != nil {
			s.observer.ObserveStaleWrite(sec)
		}
		return actual, NewStaleWriteError(sec, expected, actual)
	}
	return s.apply(a), nil
}

// apply runs the reducer and stamps the touched sections.
// Must be called with s.mu held.
func (s *Store) apply(a Action) int64 {
	s.state = Reduce(s.state, a)
	stamp := s.clock.Next()

	sec := a.Section()
	if sec == SectionAll {
		for _, each := range Sections {
			s.versions[each] = stamp
		}
	} else {
		s.versions[sec] = stamp
	}
	s.version = stamp

	s.logger.Debug("action dispatched",
		"action", a.Name(),
		"section", sec,
		"version", stamp,
	)
	if s.observer != nil {
		s.observer.ObserveDispatch(a.Name(), sec)
	}
	return stamp
}

// Version returns the stamp of the last write to a section.
// SectionAll returns the stamp of the last write to any section.
func (s *Store) Version(sec Section) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.versionLocked(sec)
}

func (s *Store) versionLocked(sec Section) int64 {
	if sec == SectionAll {
		return s.version
	}
	return s.versions[sec]
}

// Snapshot returns a deep copy of the whole state and the store version.
func (s *Store) Snapshot() (State, int64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone(), s.version
}

// Metadata returns a copy of the metadata (nil when unset) and its version.
func (s *Store) Metadata() (*model.ModelMetaData, int64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Metadata.Clone(), s.versions[SectionMetadata]
}

// Products returns a copy of the product list and its version.
func (s *Store) Products() ([]model.ProductRecord, int64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return model.CloneProducts(s.state.Products), s.versions[SectionProducts]
}

// Schedule returns a copy of the schedule and its version.
func (s *Store) Schedule() (model.Schedule, int64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Schedule.Clone(), s.versions[SectionSchedule]
}

// UnitYields returns a copy of the yield table and its version.
func (s *Store) UnitYields() (model.UnitYield, int64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.UnitYields.Clone(), s.versions[SectionUnitYields]
}

// Receipts returns a copy of receipts and their version.
func (s *Store) Receipts() (model.ProductDateVolumes, int64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Receipts.Clone(), s.versions[SectionReceipts]
}

// OpenOrders returns a copy of open orders and their version.
func (s *Store) OpenOrders() (model.ProductDateVolumes, int64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.OpenOrders.Clone(), s.versions[SectionOpenOrders]
}

// DemandForecast returns a copy of the demand forecast and its version.
func (s *Store) DemandForecast() (model.ProductDateVolumes, int64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.DemandForecast.Clone(), s.versions[SectionDemandForecast]
}

// ProductFormulation returns a copy of the formulation and its version.
func (s *Store) ProductFormulation() (model.ProductFormulation, int64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.ProductFormulation.Clone(), s.versions[SectionProductFormulation]
}

// Dates returns the Dimension Key derived from the current metadata as wire
// date keys. It is recomputed on every call, so it always follows the latest
// SetMetadata. Unset metadata yields an empty key.
func (s *Store) Dates() ([]string, error) {
	s.mu.RLock()
	meta := s.state.Metadata.Clone()
	s.mu.RUnlock()
	return model.DateKeys(meta)
}
