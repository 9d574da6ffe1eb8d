// SPDX-License-Identifier: MIT
package shifter

// Engine is the narrow block-processor capability the facade consumes.
// The production implementation is the Rubber Band live shifter binding in
// internal/rubberband, wired up by Builder.Build.
//
// The facade assumes the engine's documented concurrency contract:
// independent instances are safe on different goroutines, SetFormantScale,
// FormantScale, SetFormantOption, ChannelCount, and BlockSize are safe
// concurrently with Shift, and everything else on a single instance is
// not. Shift, Reset, StartDelay, and SetPitchScale are therefore only
// invoked while the facade's guard is held.
type Engine interface {
	// SetPitchScale applies a frequency ratio to subsequent Shift calls.
	SetPitchScale(scale float64)
	// SetFormantScale forces an explicit formant envelope scale, or
	// restores automatic scaling when passed 0.
	SetFormantScale(scale float64)
	// FormantScale returns the explicit formant scale, or 0 when
	// automatic scaling is active.
	FormantScale() float64
	// SetFormantOption switches formant handling on a live instance.
	SetFormantOption(formant Formant)
	// StartDelay returns the output alignment delay in frames at the
	// currently applied pitch scale.
	StartDelay() uint32
	// ChannelCount returns the channel count fixed at construction.
	ChannelCount() uint32
	// BlockSize returns the frames-per-channel block size fixed at
	// construction.
	BlockSize() uint32
	// Shift processes exactly one block of ChannelCount x BlockSize
	// samples, overwriting every output sample.
	Shift(input, output [][]float32)
	// Reset drops processing history while keeping parameter settings.
	Reset()
	// Close releases the engine. Implementations must tolerate repeated
	// calls; no other method may be called after Close.
	Close()
}
