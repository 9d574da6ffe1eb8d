// SPDX-License-Identifier: MIT
package shifter

import (
	"math"
	"sync"
	"sync/atomic"
)

// atomicFloat64 is a lock-free float64 cell backed by its IEEE-754 bit
// pattern in a uint64.
type atomicFloat64 struct {
	bits atomic.Uint64
}

func (f *atomicFloat64) Store(v float64) { f.bits.Store(math.Float64bits(v)) }
func (f *atomicFloat64) Load() float64   { return math.Float64frombits(f.bits.Load()) }

// LiveShifter is the concurrency-safe facade over one Engine instance.
// Create instances with Builder.Build; the zero value is not usable.
//
// The facade owns the engine exclusively and serializes the operations the
// engine forbids running concurrently (Shift, Reset, pitch-scale
// application, delay queries) behind one internal guard. Pitch-scale
// changes are staged in an atomic cell and flushed into the engine only
// while the guard is held, so setters never contend with processing. See
// the package documentation for the full thread-safety contract.
type LiveShifter struct {
	engine Engine

	// mu is the concurrency guard for the engine operations that are not
	// safe to overlap. ProcessInto try-locks it; Reset, StartDelay, and
	// Close block on it. It is never held across a call that can park on
	// anything but the guard itself.
	mu sync.Mutex

	sampleRate uint32

	// Staged pitch scale. The staged value, not the engine's, is the
	// source of truth for readback: a set is visible to PitchScale
	// before the next flush pushes it into the engine.
	pitchScale atomicFloat64
	pitchDirty atomic.Bool
}

func newLiveShifter(engine Engine, sampleRate uint32) *LiveShifter {
	s := &LiveShifter{
		engine:     engine,
		sampleRate: sampleRate,
	}
	s.pitchScale.Store(1.0)
	return s
}

// SampleRate returns the sample rate fixed at construction.
func (s *LiveShifter) SampleRate() uint32 {
	return s.sampleRate
}

// SetPitchScale stages a new pitch ratio (target frequency over source
// frequency: 2.0 one octave up, 0.5 one octave down, 1.0 unchanged).
//
// The call is lock-free and never touches the engine; the value takes
// effect at the start of the next guarded operation.
func (s *LiveShifter) SetPitchScale(scale float64) {
	s.pitchScale.Store(scale)
	s.pitchDirty.Store(true)
}

// PitchScale returns the staged pitch ratio. A value passed to
// SetPitchScale is returned here immediately, whether or not it has been
// flushed into the engine yet.
func (s *LiveShifter) PitchScale() float64 {
	return s.pitchScale.Load()
}

// SetPitchSemitones stages a pitch shift expressed in semitones, positive
// up. Equivalent to SetPitchScale(2^(semitones/12)).
func (s *LiveShifter) SetPitchSemitones(semitones float64) {
	s.SetPitchScale(math.Pow(2, semitones/12))
}

// PitchSemitones returns the staged pitch shift in semitones.
func (s *LiveShifter) PitchSemitones() float64 {
	return 12 * math.Log2(s.PitchScale())
}

// SetPitchCents stages a pitch shift expressed in cents, positive up
// (100 cents = 1 semitone). Equivalent to SetPitchScale(2^(cents/1200)).
func (s *LiveShifter) SetPitchCents(cents float64) {
	s.SetPitchScale(math.Pow(2, cents/1200))
}

// PitchCents returns the staged pitch shift in cents.
func (s *LiveShifter) PitchCents() float64 {
	return 1200 * math.Log2(s.PitchScale())
}

// flushPitchScale pushes a pending staged pitch scale into the engine.
// The guard must be held: applying a pitch scale concurrently with Shift
// is not safe in the engine.
func (s *LiveShifter) flushPitchScale() {
	if s.pitchDirty.Load() {
		s.engine.SetPitchScale(s.pitchScale.Load())
		s.pitchDirty.Store(false)
	}
}

// ProcessInto pitch-shifts exactly one block from input into the caller's
// output buffers. Both must hold ChannelCount slices of BlockSize samples;
// the buffers must not alias. On success every output sample is
// overwritten.
//
// ProcessInto never blocks: if another guarded operation is executing it
// returns ErrOperationInProgress immediately, with no engine side effects.
// Shape validation runs entirely before the engine is invoked, so a
// validation error also leaves the output untouched.
func (s *LiveShifter) ProcessInto(input, output [][]float32) error {
	if !s.mu.TryLock() {
		return ErrOperationInProgress
	}
	defer s.mu.Unlock()

	channels := int(s.engine.ChannelCount())
	block := int(s.engine.BlockSize())
	if err := validateShape(input, output, channels, block); err != nil {
		return err
	}

	s.flushPitchScale()
	s.engine.Shift(input, output)
	return nil
}

// Process is an allocating convenience around ProcessInto: it creates
// output buffers shaped like the input and returns them. Prefer
// ProcessInto on the real-time path.
func (s *LiveShifter) Process(input [][]float32) ([][]float32, error) {
	output := make([][]float32, len(input))
	for ch := range input {
		output[ch] = make([]float32, len(input[ch]))
	}
	if err := s.ProcessInto(input, output); err != nil {
		return nil, err
	}
	return output, nil
}

// Reset clears the engine's processing history, as if the instance were
// freshly built, while keeping every parameter setting. A staged pitch
// scale that has not been flushed yet stays pending and is applied by the
// next guarded operation.
//
// Reset blocks until any in-flight guarded operation finishes.
func (s *LiveShifter) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine.Reset()
}

// StartDelay returns the number of leading output frames to discard to
// align output with input. The delay depends on the sample rate, the
// window option, and the effective pitch scale, so StartDelay first
// flushes any staged pitch scale.
//
// StartDelay blocks until any in-flight guarded operation finishes; it is
// the one read accessor that can contend with processing.
func (s *LiveShifter) StartDelay() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flushPitchScale()
	return s.engine.StartDelay()
}

// SetFormantScale forces an explicit formant envelope scale, or restores
// the automatic behavior selected by the formant option when passed 0.
// Safe concurrently with processing by the engine's own contract.
func (s *LiveShifter) SetFormantScale(scale float64) {
	s.engine.SetFormantScale(scale)
}

// FormantScale returns the explicit formant scale, or 0 when automatic
// scaling is active.
func (s *LiveShifter) FormantScale() float64 {
	return s.engine.FormantScale()
}

// SetFormantOption switches between shifted and preserved formants on the
// live instance. Safe concurrently with processing.
func (s *LiveShifter) SetFormantOption(formant Formant) {
	s.engine.SetFormantOption(formant)
}

// ChannelCount returns the channel count fixed at construction.
func (s *LiveShifter) ChannelCount() uint32 {
	return s.engine.ChannelCount()
}

// BlockSize returns the block size, in frames per channel, that
// ProcessInto requires of every channel buffer. Constant for the lifetime
// of the instance.
func (s *LiveShifter) BlockSize() uint32 {
	return s.engine.BlockSize()
}

// Close releases the engine. It blocks until any in-flight guarded
// operation finishes and is safe to call more than once; no other method
// may be called after Close.
func (s *LiveShifter) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine.Close()
}
