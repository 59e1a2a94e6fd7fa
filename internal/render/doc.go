// Package render draws plain-text tables for the schedule grid and
// roll-forward results.
package render
