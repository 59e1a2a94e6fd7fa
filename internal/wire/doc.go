// Package wire converts between the in-memory planning model and the
// consolidated snapshot exchanged with the roll-forward service.
//
// The snapshot carries one field per section under its wire name. Results
// returned by the service arrive under either "Output" or "Outputs"; decoding
// normalizes both spellings into Snapshot.Result and encoding always writes
// "Outputs".
package wire
