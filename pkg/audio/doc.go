// ABOUTME: Audio fundamentals package providing core pipeline types
// ABOUTME: Defines Chunk and Buffer used throughout the talkwire library
// Package audio provides fundamental types for the talkwire duplex pipeline.
//
// This package defines the two data units every other package speaks:
//   - Chunk: a fixed-duration unit of encoded audio as carried by the transport
//   - Buffer: decoded PCM audio awaiting playout
//
// Sample conversion and transport-text encoding live in the pcm subpackage,
// sample-rate conversion in resample, and the output device abstraction in
// output.
package audio
