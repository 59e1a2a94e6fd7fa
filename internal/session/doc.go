// Package session drives load, save and run requests against the
// roll-forward service on behalf of one editing session.
//
// Every request is tagged with a token when it is issued. Only the most
// recently issued request may write into the session; a response that comes
// back after a newer request was issued is discarded with a SUPERSEDED error,
// so an old load can never overwrite a newer one. Loads are additionally
// applied with state.Store.DispatchIf, so local edits made while a load was in
// flight are not silently replaced.
package session
