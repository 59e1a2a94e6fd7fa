// Package harness replays YAML editing scenarios against a fresh model store.
//
// A scenario is an ordered list of steps, each one an edit the command
// surface can perform, followed by assertions on the final model and on the
// step trace:
//
//	name: crude_schedule
//	description: "Schedule crude on day one and copy it forward"
//	steps:
//	  - op: init
//	    args: { startDate: 45000, runDays: 3, uid: golden }
//	  - op: schedule.set
//	    args: { unit: CDU, product: CRD, date: "45000", value: "101" }
//	  - op: meta.set
//	    args: { field: colour, value: red }
//	    expect: UNKNOWN_FIELD
//	assertions:
//	  - type: cell
//	    unit: CDU
//	    product: CRD
//	    date: "45000"
//	    value: 101
//
// # Steps
//
// Every step records a trace event whose outcome is "ok" or the error code
// the step failed with. A step whose outcome differs from its expect value
// (default "ok") fails the scenario; later steps still run.
//
// save and load go through a session bound to an in-memory SQLite
// repository, so a scenario can round-trip the model through persistence.
//
// # Determinism
//
// Section versions come from testutil.DeterministicClock and request tokens
// from testutil.CountingTokens, so traces and golden snapshots are identical
// across runs. RunWithGolden compares the canonical JSON of the final model
// with testdata/golden/{name}.golden; regenerate with
//
//	go test ./internal/harness -update
package harness
