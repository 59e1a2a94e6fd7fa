package matrix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/rollforward/internal/model"
)

func dims(start, days int64) []string {
	keys, err := model.DateKeys(&model.ModelMetaData{StartDate: start, RunDays: days})
	if err != nil {
		panic(err)
	}
	return keys
}

func TestParseVolume(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{"50", 50},
		{" 12.5 ", 12.5},
		{"-3", -3},
		{"", 0},
		{"abc", 0},
		{"12abc", 12},
		{"7.5 gal", 7.5},
		{".5", 0.5},
		{"-", 0},
		{"NaN", 0},
		{"Inf", 0},
		{"1e400", 0},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseVolume(tt.raw))
		})
	}
}

func TestSetCell(t *testing.T) {
	rows := []Row{{Unit: "U", Product: "P", Dates: map[string]float64{}}}

	out := SetCell(rows, 0, "101", "50")
	assert.Equal(t, 50.0, out[0].Dates["101"])
	assert.Empty(t, rows[0].Dates, "input not modified")
}

func TestSetCellNonNumericYieldsZero(t *testing.T) {
	rows := []Row{{Unit: "U", Product: "P", Dates: map[string]float64{"101": 9}}}

	out := SetCell(rows, 0, "101", "not a number")
	v, ok := out[0].Dates["101"]
	assert.True(t, ok)
	assert.Equal(t, 0.0, v)
	assert.Equal(t, model.Schedule{}, FromMatrix(out), "zero deletes the scheduled entry")
}

func TestSetCellReadsLeadingNumber(t *testing.T) {
	rows := []Row{{Unit: "CRUDE", Product: "P1", Dates: map[string]float64{}}}

	out := SetCell(rows, 0, "100", "12abc")
	assert.Equal(t, 12.0, out[0].Dates["100"])
}

func TestSetCellBadIndex(t *testing.T) {
	rows := []Row{{Unit: "U", Product: "P", Dates: map[string]float64{}}}
	assert.Equal(t, rows, SetCell(rows, 5, "101", "1"))
	assert.Equal(t, rows, SetCell(rows, -1, "101", "1"))
}

func TestCopyForward(t *testing.T) {
	rows := []Row{{Unit: "U", Product: "P", Dates: map[string]float64{"100": 25}}}

	out := CopyForward(rows, 0, "100", 7, dims(100, 21))

	want := map[string]float64{"100": 25}
	for d := 101; d <= 107; d++ {
		want[model.DateKey(int64(d))] = 25
	}
	assert.Equal(t, want, out[0].Dates)
	assert.Equal(t, map[string]float64{"100": 25}, rows[0].Dates, "input not modified")
}

func TestCopyForwardUnknownDateIsNoop(t *testing.T) {
	rows := []Row{{Unit: "U", Product: "P", Dates: map[string]float64{"50": 25}}}
	out := CopyForward(rows, 0, "50", 7, dims(100, 21))
	assert.Equal(t, rows, out)
}

func TestCopyForwardStopsAtEnd(t *testing.T) {
	rows := []Row{{Unit: "U", Product: "P", Dates: map[string]float64{"118": 4}}}
	out := CopyForward(rows, 0, "118", 7, dims(100, 21))
	assert.Equal(t, map[string]float64{"118": 4, "119": 4, "120": 4}, out[0].Dates)
}

func TestCopyForwardUsesDimensionPositions(t *testing.T) {
	// The row's own keys are sparse; positions come from the Dimension Key.
	rows := []Row{{Unit: "U", Product: "P", Dates: map[string]float64{"100": 1, "110": 9}}}
	out := CopyForward(rows, 0, "100", 2, dims(100, 21))
	assert.Equal(t, map[string]float64{"100": 1, "101": 1, "102": 1, "110": 9}, out[0].Dates)
}

func TestCopyForwardAbsentSourceCopiesZero(t *testing.T) {
	rows := []Row{{Unit: "U", Product: "P", Dates: map[string]float64{"101": 5}}}
	out := CopyForward(rows, 0, "100", 1, dims(100, 3))
	assert.Equal(t, 0.0, out[0].Dates["101"])
}

func TestCopyForwardNoops(t *testing.T) {
	rows := []Row{{Unit: "U", Product: "P", Dates: map[string]float64{"100": 1}}}
	assert.Equal(t, rows, CopyForward(rows, 0, "100", 0, dims(100, 5)))
	assert.Equal(t, rows, CopyForward(rows, 3, "100", 2, dims(100, 5)))
	assert.Equal(t, rows, CopyForward(rows, 0, "104", 2, dims(100, 5)))
}

func TestFillRange(t *testing.T) {
	rows := []Row{{Unit: "U", Product: "P", Dates: map[string]float64{"100": 1}}}

	out := FillRange(rows, "U", "P", 8, "101", "103", dims(100, 5))

	assert.Equal(t, map[string]float64{"100": 1, "101": 8, "102": 8, "103": 8}, out[0].Dates)
}

func TestFillRangeDefaultsBounds(t *testing.T) {
	out := FillRange(nil, "U", "P", 2, "", "", dims(100, 3))
	require.Len(t, out, 1)
	assert.Equal(t, Row{Unit: "U", Product: "P", Dates: map[string]float64{"100": 2, "101": 2, "102": 2}}, out[0])

	out = FillRange(nil, "U", "P", 2, "101", "", dims(100, 3))
	assert.Equal(t, map[string]float64{"101": 2, "102": 2}, out[0].Dates)
}

func TestFillRangeCreatesRow(t *testing.T) {
	rows := []Row{{Unit: "A", Product: "1", Dates: map[string]float64{}}}
	out := FillRange(rows, "B", "2", 3, "100", "100", dims(100, 3))
	require.Len(t, out, 2)
	assert.Len(t, rows, 1)
	assert.Equal(t, "B", out[1].Unit)
	assert.Equal(t, map[string]float64{"100": 3}, out[1].Dates)
}

func TestFillRangeInvertedBoundsFillsNothing(t *testing.T) {
	rows := []Row{{Unit: "U", Product: "P", Dates: map[string]float64{}}}
	out := FillRange(rows, "U", "P", 5, "103", "101", dims(100, 5))
	assert.Equal(t, rows, out)
	assert.Empty(t, out[0].Dates)

	assert.Empty(t, FillRange(nil, "U", "P", 5, "103", "101", dims(100, 5)), "no row created")
}

func TestFillRangeUnknownBoundOrNoDates(t *testing.T) {
	assert.Empty(t, FillRange(nil, "U", "P", 5, "90", "", dims(100, 5)))
	assert.Empty(t, FillRange(nil, "U", "P", 5, "", "999", dims(100, 5)))
	assert.Empty(t, FillRange(nil, "U", "P", 5, "", "", nil))
}

func TestAddAndRemoveRow(t *testing.T) {
	rows := AddRow(nil, "U", "P")
	require.Len(t, rows, 1)
	assert.Equal(t, rows, AddRow(rows, "U", "P"), "no duplicate row")

	rows = AddRow(rows, "U", "Q")
	rows = RemoveRow(rows, "U", "P")
	require.Len(t, rows, 1)
	assert.Equal(t, "Q", rows[0].Product)
	assert.Equal(t, rows, RemoveRow(rows, "X", "Y"))
}
