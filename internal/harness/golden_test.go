package harness

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/rollforward/internal/model"
)

func TestRunWithGolden_CrudeSchedule(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/crude_schedule.yaml")
	require.NoError(t, err)

	result, err := RunWithGolden(t, s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestNewGoldenSnapshot_EmptyModel(t *testing.T) {
	result := NewResult()
	result.AddTrace(OpReset, nil, OutcomeOK, 1)

	data, err := model.MarshalCanonical(NewGoldenSnapshot("empty", result))
	require.NoError(t, err)
	assert.Equal(t,
		`{"metadata":null,"name":"empty","products":[],"schedule":{},"trace":[{"op":"reset","outcome":"ok","seq":1}]}`,
		string(data))
}

func TestGoldenSnapshot_Stable(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/crude_schedule.yaml")
	require.NoError(t, err)

	first, err := Run(s)
	require.NoError(t, err)
	second, err := Run(s)
	require.NoError(t, err)

	a, err := json.Marshal(NewGoldenSnapshot(s.Name, first))
	require.NoError(t, err)
	b, err := json.Marshal(NewGoldenSnapshot(s.Name, second))
	require.NoError(t, err)
	assert.JSONEq(t, string(a), string(b))
}
