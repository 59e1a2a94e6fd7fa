package matrix

import (
	"fmt"
	"slices"

	"github.com/roach88/rollforward/internal/state"
)

// Editor is a grid editing session over a store's schedule.
//
// Each edit updates the editor's rows, re-flattens them with FromMatrix and
// writes the whole schedule back with DispatchIf against the schedule version
// the editor last observed. If another writer replaced the schedule in the
// meantime the edit is rejected with a STALE_WRITE error and the editor keeps
// its rows; call Reload to pick up the newer schedule.
//
// Rows that flatten to nothing (all zero or empty) stay in the editor so they
// can continue to be edited, even though the schedule no longer lists them.
type Editor struct {
	store   *state.Store
	rows    []Row
	version int64
}

// Open starts an editor from the store's current schedule.
func Open(store *state.Store) *Editor {
	e := &Editor{store: store}
	e.Reload()
	return e
}

// Reload discards the editor rows and re-reads the schedule.
func (e *Editor) Reload() {
	sched, version := e.store.Schedule()
	e.rows = ToMatrix(sched)
	e.version = version
}

// Rows returns a copy of the current rows.
func (e *Editor) Rows() []Row {
	out := make([]Row, len(e.rows))
	for i, r := range e.rows {
		out[i] = r.clone()
	}
	return out
}

// Version is the schedule version the editor last wrote or read.
func (e *Editor) Version() int64 {
	return e.version
}

// SetCell edits one cell. See SetCell.
func (e *Editor) SetCell(rowIndex int, dateKey, raw string) error {
	return e.commit(SetCell(e.rows, rowIndex, dateKey, raw))
}

// SetCellFor edits one cell addressed by (unit, product), adding the row first
// if it does not exist.
func (e *Editor) SetCellFor(unit, product, dateKey, raw string) error {
	rows := AddRow(e.rows, unit, product)
	return e.commit(SetCell(rows, Find(rows, unit, product), dateKey, raw))
}

// CopyForward copies a cell into following days of the current Dimension Key.
func (e *Editor) CopyForward(rowIndex int, fromDateKey string, count int) error {
	dates, err := e.store.Dates()
	if err != nil {
		return fmt.Errorf("copy forward: %w", err)
	}
	return e.commit(CopyForward(e.rows, rowIndex, fromDateKey, count, dates))
}

// FillRange fills a date range of the (unit, product) row.
func (e *Editor) FillRange(unit, product string, value float64, startDateKey, endDateKey string) error {
	dates, err := e.store.Dates()
	if err != nil {
		return fmt.Errorf("fill range: %w", err)
	}
	return e.commit(FillRange(e.rows, unit, product, value, startDateKey, endDateKey, dates))
}

// AddRow adds an empty (unit, product) row.
func (e *Editor) AddRow(unit, product string) error {
	return e.commit(AddRow(e.rows, unit, product))
}

// RemoveRow removes the (unit, product) row.
func (e *Editor) RemoveRow(unit, product string) error {
	return e.commit(RemoveRow(e.rows, unit, product))
}

// commit flattens rows into the store. The rows are kept only if the write
// is accepted.
func (e *Editor) commit(rows []Row) error {
	version, err := e.store.DispatchIf(state.SetSchedule{Schedule: FromMatrix(rows)}, e.version)
	if err != nil {
		return fmt.Errorf("commit schedule: %w", err)
	}
	e.rows = slices.Clip(rows)
	e.version = version
	return nil
}
