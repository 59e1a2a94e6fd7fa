package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/roach88/rollforward/internal/model"
	"github.com/roach88/rollforward/internal/state"
	"github.com/roach88/rollforward/internal/wire"
)

// Service is the roll-forward service as seen by a session.
// Implemented by client.HTTPClient and store.Store.
type Service interface {
	Load(ctx context.Context, id string) (wire.Snapshot, error)
	Save(ctx context.Context, id string, snap wire.Snapshot) (string, error)
	Run(ctx context.Context, snap wire.Snapshot) (wire.Snapshot, error)
}

// Observer receives one notification per completed request.
type Observer interface {
	ObserveRequest(op, outcome string, elapsed time.Duration)
}

// Request outcomes reported to the Observer.
const (
	OutcomeOK         = "ok"
	OutcomeError      = "error"
	OutcomeSuperseded = "superseded"
	OutcomeStale      = "stale"
)

// Session couples a store with a service.
//
// Thread-safety: all methods may be called concurrently; that is how a newer
// request comes to supersede an older one.
type Session struct {
	store    *state.Store
	service  Service
	tokens   TokenGenerator
	observer Observer
	logger   *slog.Logger

	mu     sync.Mutex
	latest string
	id     string
	result model.Result
}

// Option configures a Session.
type Option func(*Session)

// WithTokens sets the request token generator. Default: UUIDv7Generator.
func WithTokens(g TokenGenerator) Option {
	return func(s *Session) {
		s.tokens = g
	}
}

// WithObserver registers a request observer.
func WithObserver(o Observer) Option {
	return func(s *Session) {
		s.observer = o
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		s.logger = l
	}
}

// New creates a session over store and service.
func New(store *state.Store, service Service, opts ...Option) *Session {
	s := &Session{
		store:   store,
		service: service,
		tokens:  UUIDv7Generator{},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store returns the session's store.
func (s *Session) Store() *state.Store {
	return s.store
}

// ID returns the id of the model last loaded or saved, or "".
func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// Result returns a copy of the latest run result, or nil.
func (s *Session) Result() model.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result.Clone()
}

// Load fetches a model and replaces the whole store with it.
//
// Errors:
//   - transport failures, wrapped
//   - SUPERSEDED when another request was issued while this one was in flight
//   - STALE_WRITE when the store was edited while this one was in flight
func (s *Session) Load(ctx context.Context, id string) error {
	token := s.issue()
	expected := s.store.Version(state.SectionAll)
	start := time.Now()

	snap, err := s.service.Load(ctx, id)
	if err != nil {
		s.finish("load", token, OutcomeError, start)
		return fmt.Errorf("load %s: %w", id, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if token != s.latest {
		s.finish("load", token, OutcomeSuperseded, start)
		return &Error{Code: ErrCodeSuperseded, Op: "load", Token: token}
	}
	if _, err := s.store.DispatchIf(state.LoadModel{State: wire.Decompose(snap)}, expected); err != nil {
		s.finish("load", token, OutcomeStale, start)
		return fmt.Errorf("load %s: %w", id, err)
	}
	s.id = id
	s.result = nil
	s.finish("load", token, OutcomeOK, start)
	return nil
}

// Save consolidates the store and saves it under id, or under a new id
// assigned by the service when id is empty. Returns the id.
func (s *Session) Save(ctx context.Context, id string) (string, error) {
	current, _ := s.store.Snapshot()
	snap, err := wire.Consolidate(current)
	if err != nil {
		return "", fmt.Errorf("save: %w", err)
	}

	token := s.issue()
	start := time.Now()
	saved, err := s.service.Save(ctx, id, snap)
	if err != nil {
		s.finish("save", token, OutcomeError, start)
		return "", fmt.Errorf("save: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if token != s.latest {
		s.finish("save", token, OutcomeSuperseded, start)
		return "", &Error{Code: ErrCodeSuperseded, Op: "save", Token: token}
	}
	s.id = saved
	s.finish("save", token, OutcomeOK, start)
	return saved, nil
}

// Run submits the consolidated model and keeps the returned result.
func (s *Session) Run(ctx context.Context) (model.Result, error) {
	current, _ := s.store.Snapshot()
	snap, err := wire.Consolidate(current)
	if err != nil {
		return nil, fmt.Errorf("run: %w", err)
	}

	token := s.issue()
	start := time.Now()
	resp, err := s.service.Run(ctx, snap)
	if err != nil {
		s.finish("run", token, OutcomeError, start)
		return nil, fmt.Errorf("run: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if token != s.latest {
		s.finish("run", token, OutcomeSuperseded, start)
		return nil, &Error{Code: ErrCodeSuperseded, Op: "run", Token: token}
	}
	if !resp.HasResult() {
		s.finish("run", token, OutcomeError, start)
		return nil, &Error{Code: ErrCodeNoOutput, Op: "run", Token: token}
	}
	s.result = wire.ResultOf(resp)
	s.finish("run", token, OutcomeOK, start)
	return s.result.Clone(), nil
}

// issue allocates a token and makes it the latest request.
func (s *Session) issue() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest = s.tokens.Generate()
	return s.latest
}

func (s *Session) finish(op, token, outcome string, start time.Time) {
	elapsed := time.Since(start)
	s.logger.Debug("request finished",
		"op", op,
		"token", token,
		"outcome", outcome,
		"elapsed", elapsed,
	)
	if s.observer != nil {
		s.observer.ObserveRequest(op, outcome, elapsed)
	}
}
