// Package client talks to the external roll-forward service over HTTP.
//
// Endpoints, relative to the base URL:
//
//	POST /save        body: snapshot  -> {"id": "..."}
//	POST /save/{id}   body: snapshot  -> {"id": "..."}
//	POST /load/{id}   no body         -> snapshot
//	POST /run         body: snapshot  -> snapshot with Output or Outputs
//
// Non-2xx responses become *TransportError. Retrying is off by default;
// WithRetry enables exponential backoff for network errors and 5xx responses.
package client
