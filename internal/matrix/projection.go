package matrix

import (
	"maps"
	"slices"

	"github.com/roach88/rollforward/internal/model"
)

// Row is one dense grid row for a (unit, product) pair.
// Dates may hold zero or out-of-window keys while editing.
type Row struct {
	Unit    string             `json:"unit"`
	Product string             `json:"productCode"`
	Dates   map[string]float64 `json:"dates"`
}

// clone deep-copies a row.
func (r Row) clone() Row {
	c := Row{Unit: r.Unit, Product: r.Product, Dates: make(map[string]float64, len(r.Dates))}
	maps.Copy(c.Dates, r.Dates)
	return c
}

// Value returns the cell at dateKey; absent cells read as 0.
func (r Row) Value(dateKey string) float64 {
	return r.Dates[dateKey]
}

// ToMatrix expands a schedule into rows, one per (unit, product) pair present
// in the schedule. Every stored date entry is copied, including entries outside
// the current Dimension Key, so edits outside the visible window are kept.
//
// Rows are ordered by unit, then product.
func ToMatrix(schedule model.Schedule) []Row {
	rows := make([]Row, 0, len(schedule))
	for _, unit := range slices.Sorted(maps.Keys(schedule)) {
		products := schedule[unit]
		for _, product := range slices.Sorted(maps.Keys(products)) {
			dates := make(map[string]float64, len(products[product]))
			maps.Copy(dates, products[product])
			rows = append(rows, Row{Unit: unit, Product: product, Dates: dates})
		}
	}
	return rows
}

// FromMatrix flattens rows back into a sparse schedule.
//
// Only strictly positive volumes are written. Zero and negative cells are
// treated as unset, so a row with no positive cell leaves no unit/product
// entry behind. Rows sharing a (unit, product) key merge, later rows winning
// per date. Empty unit or product strings are kept as keys.
func FromMatrix(rows []Row) model.Schedule {
	schedule := model.Schedule{}
	for _, row := range rows {
		for dateKey, volume := range row.Dates {
			if !(volume > 0) {
				continue
			}
			products, ok := schedule[row.Unit]
			if !ok {
				products = model.ProductDateVolumes{}
				schedule[row.Unit] = products
			}
			dates, ok := products[row.Product]
			if !ok {
				dates = model.DateVolumes{}
				products[row.Product] = dates
			}
			dates[dateKey] = volume
		}
	}
	return schedule
}

// Find returns the index of the row for (unit, product), or -1.
func Find(rows []Row, unit, product string) int {
	return slices.IndexFunc(rows, func(r Row) bool {
		return r.Unit == unit && r.Product == product
	})
}
