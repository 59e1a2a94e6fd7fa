// Package store is a local SQLite repository of planning models.
//
// It serves the same load and save operations as the remote service, so a
// session can work offline. Each save appends a revision holding the
// snapshot as canonical JSON together with its content hash; saving content
// identical to the latest revision adds nothing.
//
// # Schema
//
//   - models: one row per model id with a copy of its metadata for listing
//   - revisions: (model_id, revision) -> canonical payload + content hash
//
// Revisions are numbered from 1 per model, never by wall time, and all
// listing queries order by id then revision.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
