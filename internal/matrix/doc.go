// Package matrix projects the sparse schedule into a dense row/column view
// for grid-style editing and flattens the view back.
//
// Rows are keyed by (unit, product); columns are Dimension Key date keys.
// The projection is lossy in one direction only: FromMatrix drops every cell
// that is not strictly positive, so typing 0 into a cell deletes the entry.
//
// Every function here is total. Bad row indexes, unknown date keys and
// inverted ranges leave the rows unchanged rather than returning an error,
// and inputs are never modified in place.
package matrix
