package matrix

import (
	"math"
	"slices"

	"github.com/roach88/rollforward/internal/edit"
	"github.com/roach88/rollforward/internal/model"
)

// DefaultCopyCount is the number of following days filled by copy-forward
// when the caller does not choose one.
const DefaultCopyCount = 7

// ParseVolume converts editor input to a volume. A leading number is read
// and trailing text ignored ("12abc" is 12); anything else, or a non-finite
// result, becomes 0. Input is never rejected.
func ParseVolume(raw string) float64 {
	v := edit.ParseFloat(raw)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// withRow returns a copy of rows where row i has been replaced by f(copy of row i).
func withRow(rows []Row, i int, f func(*Row)) []Row {
	out := slices.Clone(rows)
	r := rows[i].clone()
	f(&r)
	out[i] = r
	return out
}

// SetCell writes the parsed raw input into rows[rowIndex] at dateKey.
// Unparseable input stores 0. An out-of-range row index returns rows unchanged.
func SetCell(rows []Row, rowIndex int, dateKey, raw string) []Row {
	if rowIndex < 0 || rowIndex >= len(rows) {
		return rows
	}
	value := ParseVolume(raw)
	return withRow(rows, rowIndex, func(r *Row) {
		r.Dates[dateKey] = value
	})
}

// CopyForward copies the value at fromDateKey in rows[rowIndex] into the next
// count positions of the Dimension Key, counted from fromDateKey's position in
// dates (not from the row's own populated keys). An absent source cell copies 0.
//
// Returns rows unchanged when fromDateKey is not in dates, count <= 0, or the
// row index is out of range. Positions past the end of dates are skipped.
func CopyForward(rows []Row, rowIndex int, fromDateKey string, count int, dates []string) []Row {
	if rowIndex < 0 || rowIndex >= len(rows) || count <= 0 {
		return rows
	}
	start := model.IndexOf(dates, fromDateKey)
	if start < 0 {
		return rows
	}
	value := rows[rowIndex].Value(fromDateKey)
	end := min(start+count, len(dates)-1)
	if end <= start {
		return rows
	}
	return withRow(rows, rowIndex, func(r *Row) {
		for i := start + 1; i <= end; i++ {
			r.Dates[dates[i]] = value
		}
	})
}

// FillRange writes value into every Dimension Key position between
// startDateKey and endDateKey inclusive for the (unit, product) row, creating
// the row at the end if it does not exist. An empty bound resolves to the
// first or last date.
//
// No cell is filled and no row is created when dates is empty, a bound is not
// in dates, or start sorts after end.
func FillRange(rows []Row, unit, product string, value float64, startDateKey, endDateKey string, dates []string) []Row {
	if len(dates) == 0 {
		return rows
	}
	startIdx, endIdx := 0, len(dates)-1
	if startDateKey != "" {
		startIdx = model.IndexOf(dates, startDateKey)
	}
	if endDateKey != "" {
		endIdx = model.IndexOf(dates, endDateKey)
	}
	if startIdx < 0 || endIdx < 0 || startIdx > endIdx {
		return rows
	}

	fill := func(r *Row) {
		for i := startIdx; i <= endIdx; i++ {
			r.Dates[dates[i]] = value
		}
	}

	i := Find(rows, unit, product)
	if i < 0 {
		r := Row{Unit: unit, Product: product, Dates: make(map[string]float64, endIdx-startIdx+1)}
		fill(&r)
		return append(slices.Clone(rows), r)
	}
	return withRow(rows, i, fill)
}

// AddRow appends an empty row for (unit, product) unless one already exists.
func AddRow(rows []Row, unit, product string) []Row {
	if Find(rows, unit, product) >= 0 {
		return rows
	}
	return append(slices.Clone(rows), Row{Unit: unit, Product: product, Dates: map[string]float64{}})
}

// RemoveRow drops every row for (unit, product). Missing rows are a no-op.
func RemoveRow(rows []Row, unit, product string) []Row {
	if Find(rows, unit, product) < 0 {
		return rows
	}
	return slices.DeleteFunc(slices.Clone(rows), func(r Row) bool {
		return r.Unit == unit && r.Product == product
	})
}
