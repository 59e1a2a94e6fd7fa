// Package state holds the canonical in-memory planning model and the
// mutation protocol over it.
//
// ARCHITECTURE:
//
// Replace-Whole-Section Protocol:
// Every action replaces exactly one section (or, for LoadModel and Reset, all
// of them). Reduce never merges into an existing section. Callers that edit
// part of a section read the latest value, modify it, and dispatch the whole
// section back.
//
// Version Stamps:
// Each section carries the logical-clock stamp of its last write. Because the
// replace-whole-section contract loses updates when two editors start from the
// same section value, DispatchIf rejects writes whose expected version is no
// longer current. Dispatch remains unconditional for single-owner use.
//
// The Store is explicitly constructed and passed to whatever needs it. There
// is no process-wide instance.
package state
