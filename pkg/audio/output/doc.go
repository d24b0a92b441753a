// ABOUTME: Package doc for the output device layer
// ABOUTME: Describes the clock-scheduled Sink and Playout abstractions
// Package output abstracts the playback device behind a Sink that commits
// buffer start instants against its own clock, and a per-buffer Playout
// handle that supports immediate, idempotent cancellation.
package output
