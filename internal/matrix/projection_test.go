package matrix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/rollforward/internal/model"
)

func TestToMatrixOneRowPerPair(t *testing.T) {
	sched := model.Schedule{
		"VAC":   {"P3": {"100": 3}},
		"CRUDE": {"P2": {"101": 2}, "P1": {"100": 1, "999": 7}},
	}

	rows := ToMatrix(sched)

	require.Len(t, rows, 3)
	assert.Equal(t, Row{Unit: "CRUDE", Product: "P1", Dates: map[string]float64{"100": 1, "999": 7}}, rows[0])
	assert.Equal(t, Row{Unit: "CRUDE", Product: "P2", Dates: map[string]float64{"101": 2}}, rows[1])
	assert.Equal(t, Row{Unit: "VAC", Product: "P3", Dates: map[string]float64{"100": 3}}, rows[2])
}

func TestToMatrixDoesNotSynthesizeRows(t *testing.T) {
	rows := ToMatrix(model.Schedule{"EMPTY": {}})
	assert.Empty(t, rows)
	assert.Empty(t, ToMatrix(nil))
}

func TestToMatrixCopiesDates(t *testing.T) {
	sched := model.Schedule{"U": {"P": {"1": 1}}}
	rows := ToMatrix(sched)
	rows[0].Dates["1"] = 5
	assert.Equal(t, 1.0, sched["U"]["P"]["1"])
}

func TestRoundTripPositiveSchedule(t *testing.T) {
	sched := model.Schedule{
		"CRUDE": {"P1": {"100": 10, "101": 12.5}, "P2": {"103": 0.25}},
		"VAC":   {"P1": {"105": 8}},
	}
	assert.Equal(t, sched, FromMatrix(ToMatrix(sched)))
}

func TestFromMatrixDropsZero(t *testing.T) {
	rows := []Row{{Unit: "U", Product: "P", Dates: map[string]float64{"100": 0}}}
	sched := FromMatrix(rows)
	assert.Equal(t, model.Schedule{}, sched)
}

func TestFromMatrixDropsNonPositiveKeepsPositive(t *testing.T) {
	rows := []Row{{Unit: "U", Product: "P", Dates: map[string]float64{"100": 0, "101": -3, "102": 4}}}
	assert.Equal(t, model.Schedule{"U": {"P": {"102": 4}}}, FromMatrix(rows))
}

func TestFromMatrixEmptyKeys(t *testing.T) {
	rows := []Row{{Unit: "", Product: "", Dates: map[string]float64{"100": 1}}}
	assert.Equal(t, model.Schedule{"": {"": {"100": 1}}}, FromMatrix(rows))
}

func TestFromMatrixMergesDuplicateRows(t *testing.T) {
	rows := []Row{
		{Unit: "U", Product: "P", Dates: map[string]float64{"100": 1, "101": 1}},
		{Unit: "U", Product: "P", Dates: map[string]float64{"101": 2}},
	}
	assert.Equal(t, model.Schedule{"U": {"P": {"100": 1, "101": 2}}}, FromMatrix(rows))
}

func TestFind(t *testing.T) {
	rows := []Row{{Unit: "A", Product: "1"}, {Unit: "B", Product: "2"}}
	assert.Equal(t, 1, Find(rows, "B", "2"))
	assert.Equal(t, -1, Find(rows, "B", "1"))
}
