// ABOUTME: Package doc for the PCM codec
// ABOUTME: Describes sample quantization and transport-text encoding
// Package pcm converts between normalized float samples, signed 16-bit
// samples, and the base64 transport text carried inside a Chunk.
//
// The transport mapping is bit-exact: EncodeInt16 followed by DecodeInt16
// reproduces the original sequence for every possible 16-bit value.
package pcm
