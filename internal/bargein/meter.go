// ABOUTME: Instantaneous loudness meter over a sliding window of capture samples
// ABOUTME: Computes RMS magnitude scaled to a 0-100 range
package bargein

import (
	"math"
	"sync"
)

// DefaultWindowSamples is the meter window length. At a 48kHz capture rate
// this is a hair over 20ms, short enough to react within one chunk.
const DefaultWindowSamples = 1024

// Meter computes a normalized loudness value from the most recent window of
// raw capture samples. It runs whenever capture is active, independent of
// playback.
type Meter struct {
	mu     sync.Mutex
	window []float32
	size   int
	level  float64
}

// NewMeter creates a meter with the given window size in samples.
// windowSamples <= 0 selects DefaultWindowSamples.
func NewMeter(windowSamples int) *Meter {
	if windowSamples <= 0 {
		windowSamples = DefaultWindowSamples
	}
	return &Meter{size: windowSamples}
}

// Push feeds a raw capture block and returns the updated level in [0, 100].
func (m *Meter) Push(block []float32) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.window = append(m.window, block...)
	if excess := len(m.window) - m.size; excess > 0 {
		m.window = append(m.window[:0], m.window[excess:]...)
	}

	m.level = rmsLevel(m.window)
	return m.level
}

// Level returns the most recent loudness value in [0, 100].
func (m *Meter) Level() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.level
}

// rmsLevel scales root-mean-square magnitude against the normalized sample
// range, yielding 0 for silence and 100 for a full-scale signal.
func rmsLevel(samples []float32) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range samples {
		sum += float64(s) * float64(s)
	}
	level := math.Sqrt(sum/float64(len(samples))) * 100
	if level > 100 {
		level = 100
	}
	return level
}
