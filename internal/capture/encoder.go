// ABOUTME: Outbound capture encoder batching raw sample blocks into transport chunks
// ABOUTME: Accumulates device-rate audio, monoizes, resamples and encodes fixed windows
package capture

import (
	"time"

	"github.com/Talkwire-Protocol/talkwire-go/pkg/audio"
	"github.com/Talkwire-Protocol/talkwire-go/pkg/audio/pcm"
	"github.com/Talkwire-Protocol/talkwire-go/pkg/audio/resample"
)

// Defaults for the outbound path.
const (
	DefaultChunkDuration = 40 * time.Millisecond
	DefaultOutboundRate  = 16000
)

// EncoderConfig holds capture encoder tuning.
type EncoderConfig struct {
	// DeviceRate is the capture device's native sample rate.
	DeviceRate int

	// Channels is the number of interleaved capture channels.
	Channels int

	// ChunkDuration is the accumulation window per emitted chunk.
	ChunkDuration time.Duration

	// OutboundRate is the fixed rate chunks are resampled to.
	OutboundRate int
}

// Encoder accumulates raw capture blocks and emits one encoded chunk per
// completed window. Any fractional remainder past a window boundary is
// carried into the next window so no samples are lost.
type Encoder struct {
	cfg    EncoderConfig
	window int // device-rate mono samples per chunk window
	acc    []float32
}

// NewEncoder creates a capture encoder.
func NewEncoder(cfg EncoderConfig) *Encoder {
	if cfg.Channels <= 0 {
		cfg.Channels = 1
	}
	if cfg.ChunkDuration <= 0 {
		cfg.ChunkDuration = DefaultChunkDuration
	}
	if cfg.OutboundRate <= 0 {
		cfg.OutboundRate = DefaultOutboundRate
	}

	window := int(float64(cfg.DeviceRate) * cfg.ChunkDuration.Seconds())
	return &Encoder{
		cfg:    cfg,
		window: window,
	}
}

// Push feeds one raw capture block and returns any chunks whose window
// completed. Most calls return nothing; a call that crosses one or more
// window boundaries returns one chunk per boundary crossed.
func (e *Encoder) Push(block []float32) []audio.Chunk {
	e.acc = append(e.acc, monoize(block, e.cfg.Channels)...)

	var chunks []audio.Chunk
	for len(e.acc) >= e.window {
		frame := e.acc[:e.window]
		out := resample.Convert(frame, e.cfg.DeviceRate, e.cfg.OutboundRate)
		chunks = append(chunks, audio.Chunk{
			Payload:    pcm.Encode(out),
			SampleRate: e.cfg.OutboundRate,
			Direction:  audio.Outbound,
		})

		// Keep the remainder; the window rarely lands on a block boundary.
		e.acc = append(e.acc[:0], e.acc[e.window:]...)
	}
	return chunks
}

// Pending returns the number of accumulated mono samples awaiting a window.
func (e *Encoder) Pending() int {
	return len(e.acc)
}

// Reset discards the accumulator. Used when capture restarts.
func (e *Encoder) Reset() {
	e.acc = e.acc[:0]
}

// monoize collapses interleaved multi-channel audio to mono by averaging
// across channels. Single-channel input passes through untouched.
func monoize(block []float32, channels int) []float32 {
	if channels <= 1 {
		return block
	}
	frames := len(block) / channels
	mono := make([]float32, frames)
	for i := 0; i < frames; i++ {
		var sum float32
		for ch := 0; ch < channels; ch++ {
			sum += block[i*channels+ch]
		}
		mono[i] = sum / float32(channels)
	}
	return mono
}
