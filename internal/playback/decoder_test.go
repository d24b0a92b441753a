// ABOUTME: Tests for the inbound chunk decoder
// ABOUTME: Tests payload decoding, rate defaults and corruption handling
package playback

import (
	"encoding/base64"
	"errors"
	"testing"
	"time"

	"github.com/Talkwire-Protocol/talkwire-go/pkg/audio"
	"github.com/Talkwire-Protocol/talkwire-go/pkg/audio/pcm"
)

func TestDecodeChunk(t *testing.T) {
	samples := make([]int16, 2400) // 100ms at 24kHz
	for i := range samples {
		samples[i] = int16(i % 100)
	}
	chunk := audio.Chunk{
		Payload:    pcm.EncodeInt16(samples),
		SampleRate: 24000,
		Direction:  audio.Inbound,
	}

	decoder := NewDecoder(0)
	buf, err := decoder.Decode(chunk)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if len(buf.Samples) != 2400 {
		t.Errorf("expected 2400 samples, got %d", len(buf.Samples))
	}
	if buf.SampleRate != 24000 {
		t.Errorf("expected 24000Hz, got %d", buf.SampleRate)
	}
	if buf.Duration() != 100*time.Millisecond {
		t.Errorf("expected 100ms duration, got %v", buf.Duration())
	}
}

func TestDecodeDefaultsRate(t *testing.T) {
	chunk := audio.Chunk{Payload: pcm.EncodeInt16([]int16{1, 2, 3})}

	decoder := NewDecoder(0)
	buf, err := decoder.Decode(chunk)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if buf.SampleRate != DefaultInboundRate {
		t.Errorf("expected default rate %d, got %d", DefaultInboundRate, buf.SampleRate)
	}
}

func TestDecodeOddPayloadFails(t *testing.T) {
	chunk := audio.Chunk{
		Payload: base64.StdEncoding.EncodeToString([]byte{0x01, 0x02, 0x03}),
	}

	decoder := NewDecoder(0)
	if _, err := decoder.Decode(chunk); !errors.Is(err, pcm.ErrOddPayload) {
		t.Errorf("expected ErrOddPayload, got %v", err)
	}
}

func TestDecodeSampleValues(t *testing.T) {
	chunk := audio.Chunk{Payload: pcm.EncodeInt16([]int16{-32768, 0, 16384})}

	decoder := NewDecoder(0)
	buf, err := decoder.Decode(chunk)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	expected := []float32{-1.0, 0.0, 0.5}
	for i, want := range expected {
		if buf.Samples[i] != want {
			t.Errorf("sample %d: expected %v, got %v", i, want, buf.Samples[i])
		}
	}
}
