// ABOUTME: Stateless nearest-neighbor resampler for converting audio sample rates
// ABOUTME: Steps through the input by the rate ratio, selecting the nearest sample
package resample

import "math"

// Convert resamples a window of audio from sourceRate to targetRate by
// nearest-neighbor selection: each output index maps to a fractional source
// position and takes the closest input sample. For downsampling this is
// plain decimation; for upsampling the nearest sample is held.
//
// The conversion is deterministic and carries no state between calls. A
// caller resampling a continuous stream in fixed-size windows accepts that
// each window's fractional position resets to zero; that trades a sliver of
// phase accuracy for simplicity and latency. There is deliberately no
// anti-aliasing filter ahead of decimation.
func Convert(samples []float32, sourceRate, targetRate int) []float32 {
	if sourceRate == targetRate {
		out := make([]float32, len(samples))
		copy(out, samples)
		return out
	}
	if len(samples) == 0 {
		return nil
	}

	ratio := float64(sourceRate) / float64(targetRate)
	outLen := int(float64(len(samples)) / ratio)
	out := make([]float32, outLen)

	pos := 0.0
	for i := range out {
		idx := int(math.Round(pos))
		if idx >= len(samples) {
			idx = len(samples) - 1
		}
		out[i] = samples[idx]
		pos += ratio
	}
	return out
}

// OutputLen reports how many samples Convert will produce for an input of
// inputLen samples.
func OutputLen(inputLen, sourceRate, targetRate int) int {
	if sourceRate == targetRate {
		return inputLen
	}
	return int(float64(inputLen) * float64(targetRate) / float64(sourceRate))
}
