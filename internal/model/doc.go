// Package model defines the planning-model types exchanged with the
// roll-forward service, together with the Dimension Key helpers and the
// canonical JSON encoding used for hashing and golden comparison.
//
// This package imports nothing internal. Every other internal package builds
// on it.
//
// Key constraints:
//   - JSON field names are the wire contract and must not change
//   - Date keys are the decimal string of an integer day-number
//   - A missing sparse-map entry means "no value" and is distinct from zero
//   - Map-shaped types are deep-copied with Clone before crossing a package
//     boundary that retains them
package model
