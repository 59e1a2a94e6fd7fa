package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_Scenarios(t *testing.T) {
	scenarios, err := LoadScenarios("testdata/scenarios")
	require.NoError(t, err)
	require.NotEmpty(t, scenarios)

	for _, s := range scenarios {
		t.Run(s.Name, func(t *testing.T) {
			result, err := Run(s)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
			assert.Len(t, result.Trace, len(s.Steps))
		})
	}
}

func TestRun_TraceOutcomes(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/stale_edit.yaml")
	require.NoError(t, err)

	result, err := Run(s)
	require.NoError(t, err)

	outcomes := make([]string, len(result.Trace))
	for i, e := range result.Trace {
		outcomes[i] = e.Outcome
		assert.Equal(t, int64(i+1), e.Seq)
	}
	assert.Equal(t, []string{OutcomeOK, OutcomeOK, "STALE_WRITE", OutcomeOK}, outcomes)

	// Versions only grow.
	for i := 1; i < len(result.Trace); i++ {
		assert.Greater(t, result.Trace[i].Version, result.Trace[i-1].Version)
	}
}

func TestRun_Deterministic(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/save_load.yaml")
	require.NoError(t, err)

	first, err := Run(s)
	require.NoError(t, err)
	second, err := Run(s)
	require.NoError(t, err)
	assert.Equal(t, first.Trace, second.Trace)
	assert.Equal(t, first.Model, second.Model)
}

func TestRun_UnexpectedOutcomeFails(t *testing.T) {
	s := &Scenario{
		Name:        "unexpected",
		Description: "meta.set on an empty model",
		Steps:       []Step{{Op: OpMetaSet, Args: map[string]any{"field": "uid", "value": "x"}}},
		Assertions:  []Assertion{{Type: AssertTraceContains, Op: OpMetaSet}},
	}
	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "outcome MISSING_METADATA, expected ok")
}

func TestRun_FailedAssertion(t *testing.T) {
	value := 7.0
	s := &Scenario{
		Name:        "wrong_cell",
		Description: "cell assertion against an empty schedule",
		Steps:       []Step{{Op: OpInit, Args: map[string]any{"startDate": 1, "runDays": 1}}},
		Assertions:  []Assertion{{Type: AssertCell, Unit: "U", Product: "P", Date: "1", Value: &value}},
	}
	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "Assertion failed: cell")
}

func TestRun_SectionSetRejectsBadData(t *testing.T) {
	s := &Scenario{
		Name:        "bad_section",
		Description: "receipts given as a list",
		Steps: []Step{{
			Op:     OpSectionSet,
			Args:   map[string]any{"section": "receipts", "data": []any{1, 2}},
			Expect: "ERROR",
		}},
		Assertions: []Assertion{{Type: AssertTraceContains, Op: OpSectionSet}},
	}
	result, err := Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}
