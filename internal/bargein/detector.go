// ABOUTME: Barge-in decision policy and detector wiring
// ABOUTME: Cancels remote playback when the local participant talks over it
package bargein

import "log"

// DefaultThreshold is the loudness level above which local speech interrupts
// playback. It is a fixed tunable, not auto-calibrated against ambient noise;
// that is a known limitation of the pipeline, not a defect.
const DefaultThreshold = 22.0

// ShouldInterrupt reports whether local speech should cancel remote playback:
// true iff the level exceeds the threshold while playback is sounding.
func ShouldInterrupt(level, threshold float64, playbackActive bool) bool {
	return level > threshold && playbackActive
}

// Detector wires the meter and the interruption policy to a playback stop
// hook. It consumes the same raw blocks the capture encoder sees.
type Detector struct {
	meter     *Meter
	threshold float64
	sounding  func() bool
	stop      func()

	// OnBargeIn, if set, is invoked after each triggered interruption.
	OnBargeIn func()
}

// NewDetector creates a detector. sounding reports whether playback is
// currently audible; stop performs the synchronous cancellation.
func NewDetector(meter *Meter, threshold float64, sounding func() bool, stop func()) *Detector {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Detector{
		meter:     meter,
		threshold: threshold,
		sounding:  sounding,
		stop:      stop,
	}
}

// Process feeds one raw capture block through the meter and applies the
// interruption policy. It returns true when playback was cancelled.
func (d *Detector) Process(block []float32) bool {
	level := d.meter.Push(block)
	if !ShouldInterrupt(level, d.threshold, d.sounding()) {
		return false
	}

	log.Printf("bargein: level %.1f over threshold %.1f, stopping playback", level, d.threshold)
	d.stop()
	if d.OnBargeIn != nil {
		d.OnBargeIn()
	}
	return true
}

// Level exposes the meter's current loudness value.
func (d *Detector) Level() float64 {
	return d.meter.Level()
}
