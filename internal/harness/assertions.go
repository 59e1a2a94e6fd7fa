package harness

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/roach88/rollforward/internal/validate"
	"github.com/roach88/rollforward/internal/wire"
)

// AssertionError is returned when an assertion fails.
// It includes the trace to help debug the failure.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
	Trace    []TraceEvent
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nTrace:\n")
		for _, event := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] %s %v -> %s\n", event.Seq, event.Op, event.Args, event.Outcome)
		}
	}
	return buf.String()
}

// sectionReaders extract one section of a snapshot for section assertions.
var sectionReaders = map[string]func(wire.Snapshot) any{
	"metadata":    func(s wire.Snapshot) any { return s.ModelMetaData },
	"products":    func(s wire.Snapshot) any { return s.ProductsForModelItem },
	"schedule":    func(s wire.Snapshot) any { return s.ScheduleItem },
	"yields":      func(s wire.Snapshot) any { return s.UnitYieldItem },
	"receipts":    func(s wire.Snapshot) any { return s.Receipts },
	"orders":      func(s wire.Snapshot) any { return s.DailyOpenOrders },
	"demand":      func(s wire.Snapshot) any { return s.DailyDemandForecast },
	"formulation": func(s wire.Snapshot) any { return s.ProductFormulation },
}

// evaluate dispatches an assertion to its checker.
func evaluate(a Assertion, result *Result) error {
	switch a.Type {
	case AssertCell:
		return assertCell(result.Model, a)
	case AssertNoRow:
		return assertNoRow(result.Model, a)
	case AssertSection:
		return assertSection(result.Model, a)
	case AssertProductCount:
		if got := len(result.Model.ProductsForModelItem); got != *a.Count {
			return &AssertionError{Type: a.Type, Expected: fmt.Sprint(*a.Count), Actual: fmt.Sprint(got)}
		}
		return nil
	case AssertValid:
		return assertValid(result.Model, *a.Valid)
	case AssertTraceContains:
		return assertTraceContains(result.Trace, a)
	case AssertTraceOrder:
		return assertTraceOrder(result.Trace, a)
	case AssertTraceCount:
		return assertTraceCount(result.Trace, a)
	}
	return fmt.Errorf("unknown assertion type %q", a.Type)
}

// assertCell checks one schedule cell. An absent cell reads as 0.
func assertCell(snap wire.Snapshot, a Assertion) error {
	got := snap.ScheduleItem[a.Unit][a.Product][a.Date]
	if got != *a.Value {
		return &AssertionError{
			Type:     AssertCell,
			Expected: fmt.Sprintf("%s/%s@%s = %v", a.Unit, a.Product, a.Date, *a.Value),
			Actual:   fmt.Sprint(got),
		}
	}
	return nil
}

func assertNoRow(snap wire.Snapshot, a Assertion) error {
	if _, ok := snap.ScheduleItem[a.Unit][a.Product]; ok {
		return &AssertionError{
			Type:     AssertNoRow,
			Expected: fmt.Sprintf("no row %s/%s", a.Unit, a.Product),
			Actual:   fmt.Sprintf("%v", snap.ScheduleItem[a.Unit][a.Product]),
		}
	}
	return nil
}

// assertSection checks that the expected map is a subset of the section's
// JSON form.
func assertSection(snap wire.Snapshot, a Assertion) error {
	data, err := json.Marshal(sectionReaders[a.Section](snap))
	if err != nil {
		return err
	}
	var actual any
	if err := json.Unmarshal(data, &actual); err != nil {
		return err
	}
	if !matchSubset(actual, normalize(a.Expect)) {
		return &AssertionError{
			Type:     AssertSection,
			Expected: fmt.Sprintf("%s contains %v", a.Section, a.Expect),
			Actual:   string(data),
		}
	}
	return nil
}

func assertValid(snap wire.Snapshot, want bool) error {
	report, err := validate.Check(snap)
	if err != nil {
		return err
	}
	if report.OK() != want {
		return &AssertionError{
			Type:     AssertValid,
			Expected: fmt.Sprintf("valid=%t", want),
			Actual:   fmt.Sprintf("valid=%t %v", report.OK(), report.Errors()),
		}
	}
	return nil
}

func assertTraceContains(trace []TraceEvent, a Assertion) error {
	for _, event := range trace {
		if event.Op == a.Op {
			return nil
		}
	}
	return &AssertionError{
		Type:     AssertTraceContains,
		Expected: fmt.Sprintf("op %s", a.Op),
		Actual:   "not found in trace",
		Trace:    trace,
	}
}

// assertTraceOrder checks that ops appear in order; other steps may
// intervene.
func assertTraceOrder(trace []TraceEvent, a Assertion) error {
	next := 0
	for _, event := range trace {
		if next < len(a.Ops) && event.Op == a.Ops[next] {
			next++
		}
	}
	if next < len(a.Ops) {
		return &AssertionError{
			Type:     AssertTraceOrder,
			Expected: fmt.Sprintf("ops in order %v", a.Ops),
			Actual:   fmt.Sprintf("missing %s after position %d", a.Ops[next], next),
			Trace:    trace,
		}
	}
	return nil
}

func assertTraceCount(trace []TraceEvent, a Assertion) error {
	count := 0
	for _, event := range trace {
		if event.Op == a.Op {
			count++
		}
	}
	if count != *a.Count {
		return &AssertionError{
			Type:     AssertTraceCount,
			Expected: fmt.Sprintf("%s %d time(s)", a.Op, *a.Count),
			Actual:   fmt.Sprintf("%d time(s)", count),
			Trace:    trace,
		}
	}
	return nil
}

// normalize converts YAML-decoded values to their JSON-decoded form so they
// compare against json.Unmarshal output.
func normalize(v any) any {
	data, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return v
	}
	return out
}

// matchSubset reports whether expected is a subset of actual: maps match
// key by key, everything else must be equal.
func matchSubset(actual, expected any) bool {
	em, ok := expected.(map[string]any)
	if !ok {
		return reflect.DeepEqual(actual, expected)
	}
	am, ok := actual.(map[string]any)
	if !ok {
		return false
	}
	for k, ev := range em {
		av, present := am[k]
		if !present || !matchSubset(av, ev) {
			return false
		}
	}
	return true
}
