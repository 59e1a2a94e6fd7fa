// Package edit implements the per-field edits an operator makes to model
// metadata and the product list.
//
// Numeric input is parsed leniently: the longest numeric prefix is used and
// anything unparseable becomes 0. Edits never mutate their inputs.
package edit
