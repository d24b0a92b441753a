// ABOUTME: Audio output interface definitions
// ABOUTME: Common interface for clock-scheduled playback backends
package output

import "time"

// Playout is a handle to one scheduled buffer on the output device.
type Playout interface {
	// Done is closed when the playout finishes naturally or is stopped.
	Done() <-chan struct{}

	// Stop halts the playout immediately. Stopping a playout that already
	// finished is a no-op. Safe to call more than once.
	Stop()
}

// Sink is an output device that plays buffers at precise instants on its own
// clock. Scheduling decisions may happen on any goroutine; the device commits
// the actual start-of-playout instant itself.
type Sink interface {
	// Open initializes the device for mono playback at the given rate.
	Open(sampleRate int) error

	// Now returns the current reading of the device clock. It is monotonic
	// for the lifetime of the sink.
	Now() time.Time

	// PlayAt schedules samples to begin sounding at the given clock time.
	// It must not block.
	PlayAt(samples []float32, at time.Time) (Playout, error)

	// Close releases device resources.
	Close() error
}
