// ABOUTME: Core audio types for the duplex voice pipeline
// ABOUTME: Defines Chunk, Buffer and the chunk direction enum
package audio

import "time"

// Direction indicates which way a chunk travels through the pipeline.
type Direction int

const (
	// Outbound chunks flow from the capture device to the remote party.
	Outbound Direction = iota
	// Inbound chunks flow from the remote party to the playback path.
	Inbound
)

// String returns a human-readable direction name.
func (d Direction) String() string {
	switch d {
	case Outbound:
		return "outbound"
	case Inbound:
		return "inbound"
	default:
		return "unknown"
	}
}

// Chunk is one fixed-duration unit of encoded audio as carried by the
// transport. Payload is base64 text over little-endian int16 PCM, produced
// and consumed by the pcm package. Chunks are immutable once produced.
type Chunk struct {
	Payload    string
	SampleRate int
	Direction  Direction
}

// Buffer is decoded PCM audio awaiting playout. Samples are normalized
// floats in [-1.0, 1.0]. A Buffer is owned by the playback scheduler from
// enqueue until its playout ends or is cancelled.
type Buffer struct {
	Samples    []float32
	SampleRate int
}

// Duration returns the playout length of the buffer.
func (b Buffer) Duration() time.Duration {
	if b.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(len(b.Samples)) / float64(b.SampleRate) * float64(time.Second))
}

// Seconds returns the playout length of the buffer in seconds.
func (b Buffer) Seconds() float64 {
	if b.SampleRate <= 0 {
		return 0
	}
	return float64(len(b.Samples)) / float64(b.SampleRate)
}
