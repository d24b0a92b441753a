// ABOUTME: PCM sample conversion and transport-text codec
// ABOUTME: Converts float32 samples to int16 and int16 to base64 little-endian bytes
package pcm

import (
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// ErrOddPayload reports a transport payload whose decoded byte count is not a
// multiple of the int16 sample size. The chunk is corrupt and cannot be
// recovered locally.
var ErrOddPayload = errors.New("pcm: payload length is not a multiple of 2")

// FloatToInt16 converts a normalized sample to a signed 16-bit sample.
// Input is clamped to [-1.0, 1.0] before scaling by the full 16-bit range,
// so the conversion is the exact inverse of Int16ToFloat for every possible
// 16-bit value.
func FloatToInt16(sample float32) int16 {
	if sample > 1.0 {
		sample = 1.0
	}
	if sample < -1.0 {
		sample = -1.0
	}
	scaled := math.Round(float64(sample) * 32768.0)
	if scaled > 32767 {
		scaled = 32767
	}
	return int16(scaled)
}

// Int16ToFloat converts a signed 16-bit sample to a normalized float in [-1.0, 1.0).
func Int16ToFloat(sample int16) float32 {
	return float32(sample) / 32768.0
}

// Encode quantizes normalized samples to int16, packs them as little-endian
// bytes and returns the base64 transport text.
func Encode(samples []float32) string {
	buf := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(FloatToInt16(s)))
	}
	return base64.StdEncoding.EncodeToString(buf)
}

// EncodeInt16 packs already-quantized samples as transport text.
func EncodeInt16(samples []int16) string {
	buf := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(s))
	}
	return base64.StdEncoding.EncodeToString(buf)
}

// Decode converts transport text back to normalized float samples.
func Decode(payload string) ([]float32, error) {
	raw, err := DecodeInt16(payload)
	if err != nil {
		return nil, err
	}
	samples := make([]float32, len(raw))
	for i, s := range raw {
		samples[i] = Int16ToFloat(s)
	}
	return samples, nil
}

// DecodeInt16 converts transport text back to raw int16 samples.
func DecodeInt16(payload string) ([]int16, error) {
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("pcm: invalid transport text: %w", err)
	}
	if len(data)%2 != 0 {
		return nil, ErrOddPayload
	}
	samples := make([]int16, len(data)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(data[i*2:]))
	}
	return samples, nil
}
