// Package collab turns dispatched transactions into versioned step
// envelopes for synchronization with remote peers, and applies remote
// envelopes back into the local document.
//
// The extension observes every local transaction, accumulates its steps,
// and hands a debounced envelope to the configured send function. Rapid
// edits collapse into one envelope carrying all of their steps. Remote
// envelopes are applied through the view without re-entering the
// broadcast path, so peers never echo each other's changes.
package collab
