// ABOUTME: Package doc for the resampler
// ABOUTME: Notes the decimation trade-off inherited from the pipeline design
// Package resample converts audio between sample rates using stateless
// nearest-neighbor selection. It is sufficient for voice; callers wanting
// phase-accurate or anti-aliased conversion should filter upstream.
package resample
