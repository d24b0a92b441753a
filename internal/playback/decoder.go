// ABOUTME: Inbound chunk decoder for the playback path
// ABOUTME: Turns transport chunks into playable buffers with known duration
package playback

import (
	"fmt"

	"github.com/Talkwire-Protocol/talkwire-go/pkg/audio"
	"github.com/Talkwire-Protocol/talkwire-go/pkg/audio/pcm"
)

// DefaultInboundRate is the sample rate the remote party delivers audio at.
// The inbound path performs no resampling: this rate is assumed to be one
// the output device accepts directly.
const DefaultInboundRate = 24000

// Decoder turns inbound encoded chunks into decoded buffers.
type Decoder struct {
	sampleRate int
}

// NewDecoder creates a decoder. sampleRate is used when a chunk does not
// declare its own; zero means DefaultInboundRate.
func NewDecoder(sampleRate int) *Decoder {
	if sampleRate <= 0 {
		sampleRate = DefaultInboundRate
	}
	return &Decoder{sampleRate: sampleRate}
}

// Decode converts one encoded chunk into a buffer. A payload whose byte
// count is not a multiple of the sample size is a corruption signal and
// yields an error; the caller drops the chunk and the stream continues.
func (d *Decoder) Decode(chunk audio.Chunk) (audio.Buffer, error) {
	samples, err := pcm.Decode(chunk.Payload)
	if err != nil {
		return audio.Buffer{}, fmt.Errorf("decode chunk: %w", err)
	}

	rate := chunk.SampleRate
	if rate <= 0 {
		rate = d.sampleRate
	}
	return audio.Buffer{Samples: samples, SampleRate: rate}, nil
}
