// Package validate checks a snapshot at the boundary, before it is saved or
// submitted.
//
// Structural rules (field types, non-negative runDays within the supported
// range, non-negative tank capacity, decimal date keys) live in an embedded
// CUE schema. Rules that depend on values across sections, such as date keys
// falling inside the Dimension Key, are checked in Go.
package validate
