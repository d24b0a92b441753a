// ABOUTME: Tests for the capture encoder
// ABOUTME: Tests window batching, remainder carry-over and monoization
package capture

import (
	"testing"
	"time"

	"github.com/Talkwire-Protocol/talkwire-go/pkg/audio"
	"github.com/Talkwire-Protocol/talkwire-go/pkg/audio/pcm"
)

func TestEncoderEmitsAtWindowBoundary(t *testing.T) {
	e := NewEncoder(EncoderConfig{
		DeviceRate:    48000,
		Channels:      1,
		ChunkDuration: 40 * time.Millisecond,
		OutboundRate:  16000,
	})

	// 40ms at 48kHz is 1920 samples; feed 30ms first.
	if chunks := e.Push(make([]float32, 1440)); chunks != nil {
		t.Fatalf("emitted %d chunks before window complete", len(chunks))
	}

	chunks := e.Push(make([]float32, 1440))
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}

	chunk := chunks[0]
	if chunk.Direction != audio.Outbound {
		t.Error("expected outbound chunk")
	}
	if chunk.SampleRate != 16000 {
		t.Errorf("expected 16000Hz, got %d", chunk.SampleRate)
	}

	samples, err := pcm.Decode(chunk.Payload)
	if err != nil {
		t.Fatalf("chunk payload not decodable: %v", err)
	}
	// 40ms at 16kHz.
	if len(samples) != 640 {
		t.Errorf("expected 640 samples, got %d", len(samples))
	}

	// 30ms + 30ms leaves 20ms carried over.
	if got := e.Pending(); got != 960 {
		t.Errorf("expected 960 carried samples, got %d", got)
	}
}

func TestEncoderMultipleWindowsPerPush(t *testing.T) {
	e := NewEncoder(EncoderConfig{DeviceRate: 16000, Channels: 1})

	// 100ms at 16kHz crosses two 40ms windows with 20ms left over.
	chunks := e.Push(make([]float32, 1600))
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if got := e.Pending(); got != 320 {
		t.Errorf("expected 320 carried samples, got %d", got)
	}
}

func TestEncoderCarryOverPreservesSamples(t *testing.T) {
	e := NewEncoder(EncoderConfig{DeviceRate: 16000, Channels: 1})

	// Distinct values across the boundary: the second window must begin
	// exactly where the first ended.
	block := make([]float32, 800)
	for i := range block {
		block[i] = float32(i) / 1024.0
	}
	e.Push(block) // 50ms: one window out, 10ms carried

	second := e.Push(make([]float32, 480))[0] // completes the second window
	samples, err := pcm.Decode(second.Payload)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	// Same rates, so the first carried sample is block[640] exactly.
	want := pcm.Int16ToFloat(pcm.FloatToInt16(block[640]))
	if samples[0] != want {
		t.Errorf("first sample of second window = %v, want %v", samples[0], want)
	}
}

func TestEncoderMonoizesStereo(t *testing.T) {
	e := NewEncoder(EncoderConfig{DeviceRate: 16000, Channels: 2})

	// 40ms of stereo frames with L=0.25, R=0.75; the mono average is 0.5.
	block := make([]float32, 640*2)
	for i := 0; i < 640; i++ {
		block[i*2] = 0.25
		block[i*2+1] = 0.75
	}

	chunks := e.Push(block)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}

	samples, err := pcm.Decode(chunks[0].Payload)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	want := pcm.Int16ToFloat(pcm.FloatToInt16(0.5))
	for i, s := range samples {
		if s != want {
			t.Fatalf("sample %d = %v, want %v", i, s, want)
		}
	}
}

func TestEncoderReset(t *testing.T) {
	e := NewEncoder(EncoderConfig{DeviceRate: 16000, Channels: 1})

	e.Push(make([]float32, 100))
	e.Reset()
	if got := e.Pending(); got != 0 {
		t.Errorf("expected empty accumulator after reset, got %d", got)
	}
}
