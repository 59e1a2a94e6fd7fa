package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/rollforward/internal/model"
)

// GoldenSnapshot is the golden-file view of a scenario run: the final
// model's editable sections and the step outcomes. Section versions are left
// out so the file only changes when behaviour does.
type GoldenSnapshot struct {
	Name     string                `json:"name"`
	Metadata *model.ModelMetaData  `json:"metadata"`
	Products []model.ProductRecord `json:"products"`
	Schedule model.Schedule        `json:"schedule"`
	Trace    []goldenEvent         `json:"trace"`
}

type goldenEvent struct {
	Seq     int64  `json:"seq"`
	Op      string `json:"op"`
	Outcome string `json:"outcome"`
}

// NewGoldenSnapshot builds the golden view of result. Absent sections are
// written as empty collections.
func NewGoldenSnapshot(name string, result *Result) GoldenSnapshot {
	products := result.Model.ProductsForModelItem
	if products == nil {
		products = []model.ProductRecord{}
	}
	events := make([]goldenEvent, len(result.Trace))
	for i, e := range result.Trace {
		events[i] = goldenEvent{Seq: e.Seq, Op: e.Op, Outcome: e.Outcome}
	}
	return GoldenSnapshot{
		Name:     name,
		Metadata: result.Model.ModelMetaData,
		Products: products,
		Schedule: result.Model.ScheduleItem.Clone(),
		Trace:    events,
	}
}

// RunWithGolden executes a scenario and compares its canonical snapshot
// against testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	return result, AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares an existing result against its golden file.
func AssertGolden(t *testing.T, name string, result *Result) error {
	t.Helper()

	data, err := model.MarshalCanonical(NewGoldenSnapshot(name, result))
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
	return nil
}
