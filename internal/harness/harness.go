package harness

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/roach88/rollforward/internal/edit"
	"github.com/roach88/rollforward/internal/matrix"
	"github.com/roach88/rollforward/internal/model"
	"github.com/roach88/rollforward/internal/session"
	"github.com/roach88/rollforward/internal/state"
	"github.com/roach88/rollforward/internal/store"
	"github.com/roach88/rollforward/internal/testutil"
	"github.com/roach88/rollforward/internal/wire"
)

// Harness is the scenario execution engine. Each run gets a fresh model
// store and a fresh in-memory repository.
type Harness struct {
	store   *state.Store
	repo    *store.Store
	session *session.Session
	clock   *testutil.DeterministicClock
	logger  *slog.Logger
}

// Run executes a scenario and returns the result. An error is returned only
// when the harness itself cannot run (repository or fixture failures); step
// and assertion failures are reported in the Result.
func Run(scenario *Scenario) (*Result, error) {
	logger := testutil.DiscardLogger()
	n := 0
	repo, err := store.Open(":memory:",
		store.WithLogger(logger),
		store.WithIDGenerator(func() string { n++; return fmt.Sprintf("model-%d", n) }),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory repository: %w", err)
	}
	defer repo.Close()

	clock := testutil.NewDeterministicClock()
	st := state.New(state.WithClock(clock), state.WithLogger(logger))
	h := &Harness{
		store: st,
		repo:  repo,
		session: session.New(st, repo,
			session.WithTokens(testutil.NewCountingTokens("req")),
			session.WithLogger(logger)),
		clock:  clock,
		logger: logger,
	}

	if scenario.Fixture != "" {
		if err := h.loadFixture(scenario.Fixture); err != nil {
			return nil, err
		}
	}

	ctx := context.Background()
	result := NewResult()
	for i, step := range scenario.Steps {
		outcome := outcomeOf(h.apply(ctx, step))
		result.AddTrace(step.Op, step.Args, outcome, st.Version(state.SectionAll))

		want := step.Expect
		if want == "" {
			want = OutcomeOK
		}
		if outcome != want {
			result.AddError(fmt.Sprintf("steps[%d] %s: outcome %s, expected %s", i, step.Op, outcome, want))
		}
	}

	current, _ := st.Snapshot()
	result.Model = wire.Capture(current)

	for i, a := range scenario.Assertions {
		if err := evaluate(a, result); err != nil {
			result.AddError(fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return result, nil
}

// loadFixture replaces the model with a snapshot file.
func (h *Harness) loadFixture(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read fixture: %w", err)
	}
	snap, err := wire.Decode(data)
	if err != nil {
		return fmt.Errorf("failed to decode fixture: %w", err)
	}
	h.store.Dispatch(state.LoadModel{State: wire.Decompose(snap)})
	return nil
}

// apply executes one step against the store.
func (h *Harness) apply(ctx context.Context, step Step) error {
	a := args(step.Args)
	switch step.Op {
	case OpInit:
		h.store.Dispatch(state.Reset{})
		h.store.Dispatch(state.SetMetadata{Metadata: model.ModelMetaData{
			StartDate:   a.integer("startDate"),
			RunDays:     a.integer("runDays"),
			UID:         a.str("uid"),
			Description: a.str("description"),
		}})
		return nil

	case OpReset:
		h.store.Dispatch(state.Reset{})
		return nil

	case OpMetaSet:
		meta, version := h.store.Metadata()
		if meta == nil {
			return state.NewMissingMetadataError()
		}
		updated, err := edit.SetMetadataField(*meta, a.str("field"), a.str("value"))
		if err != nil {
			return err
		}
		_, err = h.store.DispatchIf(state.SetMetadata{Metadata: updated}, version)
		return err

	case OpProductAdd, OpProductSet, OpProductRemove:
		list, version := h.store.Products()
		var err error
		switch step.Op {
		case OpProductAdd:
			list = edit.AddProduct(list)
		case OpProductSet:
			list, err = edit.UpdateProduct(list, int(a.integer("index")), a.str("field"), a.str("value"))
		case OpProductRemove:
			list = edit.RemoveProduct(list, int(a.integer("index")))
		}
		if err != nil {
			return err
		}
		_, err = h.store.DispatchIf(state.SetProducts{Products: list}, version)
		return err

	case OpScheduleSet:
		return matrix.Open(h.store).SetCellFor(a.str("unit"), a.str("product"), a.str("date"), a.str("value"))

	case OpScheduleCopy:
		ed := matrix.Open(h.store)
		i := matrix.Find(ed.Rows(), a.str("unit"), a.str("product"))
		if i < 0 {
			return nil
		}
		count := matrix.DefaultCopyCount
		if a.has("count") {
			count = int(a.integer("count"))
		}
		return ed.CopyForward(i, a.str("date"), count)

	case OpScheduleFill:
		return matrix.Open(h.store).FillRange(a.str("unit"), a.str("product"),
			matrix.ParseVolume(a.str("value")), a.str("from"), a.str("to"))

	case OpScheduleAdd:
		return matrix.Open(h.store).AddRow(a.str("unit"), a.str("product"))

	case OpScheduleRemove:
		return matrix.Open(h.store).RemoveRow(a.str("unit"), a.str("product"))

	case OpStaleSchedule:
		ed := matrix.Open(h.store)
		if err := matrix.Open(h.store).AddRow(a.str("unit")+"-other", a.str("product")); err != nil {
			return err
		}
		return ed.SetCellFor(a.str("unit"), a.str("product"), a.str("date"), a.str("value"))

	case OpSectionSet:
		action, err := sectionAction(a.str("section"), step.Args["data"])
		if err != nil {
			return err
		}
		h.store.Dispatch(action)
		return nil

	case OpSave:
		_, err := h.session.Save(ctx, a.str("id"))
		return err

	case OpLoad:
		return h.session.Load(ctx, a.str("id"))
	}
	return fmt.Errorf("unknown op %q", step.Op)
}

// sectionAction converts YAML data into the replacing action for a section.
func sectionAction(section string, data any) (state.Action, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("section %s: %w", section, err)
	}
	switch section {
	case "receipts", "orders", "demand":
		var v model.ProductDateVolumes
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("section %s: %w", section, err)
		}
		switch section {
		case "receipts":
			return state.SetReceipts{Receipts: v}, nil
		case "orders":
			return state.SetOpenOrders{OpenOrders: v}, nil
		default:
			return state.SetDemandForecast{DemandForecast: v}, nil
		}
	case "yields":
		var v model.UnitYield
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("section %s: %w", section, err)
		}
		return state.SetUnitYields{UnitYields: v}, nil
	case "formulation":
		var v model.ProductFormulation
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("section %s: %w", section, err)
		}
		return state.SetProductFormulation{ProductFormulation: v}, nil
	}
	return nil, fmt.Errorf("unknown section %q", section)
}

// outcomeOf maps a step error to its trace outcome.
func outcomeOf(err error) string {
	if err == nil {
		return OutcomeOK
	}
	var se *state.Error
	var ee *edit.Error
	var xe *session.Error
	switch {
	case errors.As(err, &se):
		return string(se.Code)
	case errors.As(err, &ee):
		return ee.Code
	case errors.As(err, &xe):
		return string(xe.Code)
	case errors.Is(err, store.ErrNotFound):
		return "NOT_FOUND"
	}
	return "ERROR"
}

// args reads step arguments decoded from YAML.
type args map[string]any

func (a args) has(key string) bool {
	_, ok := a[key]
	return ok
}

func (a args) str(key string) string {
	v, ok := a[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func (a args) integer(key string) int64 {
	switch v := a[key].(type) {
	case int:
		return int64(v)
	case int64:
		return v
	case float64:
		return int64(v)
	case string:
		n, _ := strconv.ParseInt(v, 10, 64)
		return n
	}
	return 0
}
