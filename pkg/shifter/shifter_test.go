// SPDX-License-Identifier: MIT
//
// The tests in this file exercise the facade against the real engine
// binding and therefore need librubberband available, exactly like the
// application does. Facade semantics that don't depend on engine behavior
// are covered against the stub in the other test files.
package shifter

import (
	"errors"
	"math"
	"testing"

	"liveshift/pkg/testsignal"
)

func TestNewBuilderRejectsDegenerateConfig(t *testing.T) {
	t.Parallel()

	_, err := NewBuilder(0, 2)
	var srErr UnsupportedSampleRateError
	if !errors.As(err, &srErr) {
		t.Errorf("NewBuilder(0, 2) = %v, want UnsupportedSampleRateError", err)
	}

	_, err = NewBuilder(44100, 0)
	var chErr UnsupportedChannelCountError
	if !errors.As(err, &chErr) {
		t.Errorf("NewBuilder(44100, 0) = %v, want UnsupportedChannelCountError", err)
	}

	if _, err := NewBuilder(44100, 1); err != nil {
		t.Errorf("NewBuilder(44100, 1) = %v, want nil", err)
	}
}

func mustBuild(t *testing.T, sampleRate, channels uint32, opts ...func(*Builder) *Builder) *LiveShifter {
	t.Helper()
	b, err := NewBuilder(sampleRate, channels)
	if err != nil {
		t.Fatalf("NewBuilder(%d, %d): %v", sampleRate, channels, err)
	}
	for _, opt := range opts {
		b = opt(b)
	}
	s := b.Build()
	t.Cleanup(s.Close)
	return s
}

func TestBlockSizeFixedAcrossSampleRates(t *testing.T) {
	// The engine's block size is 512 frames regardless of sample rate.
	for _, rate := range []uint32{16000, 44100, 48000, 96000, 192000} {
		s := mustBuild(t, rate, 1)
		first := s.BlockSize()
		if first != 512 {
			t.Errorf("BlockSize() at %d Hz = %d, want 512", rate, first)
		}
		if again := s.BlockSize(); again != first {
			t.Errorf("BlockSize() changed between calls at %d Hz: %d then %d", rate, first, again)
		}
		if got := s.SampleRate(); got != rate {
			t.Errorf("SampleRate() = %d, want %d", got, rate)
		}
	}
}

func TestStartDelayByWindow(t *testing.T) {
	tests := []struct {
		sampleRate uint32
		window     Window
		want       uint32
	}{
		{44100, WindowShort, 2112},
		{48000, WindowShort, 2112},
		{96000, WindowShort, 4160},
		{44100, WindowMedium, 2624},
		{48000, WindowMedium, 2624},
		{96000, WindowMedium, 5184},
	}
	for _, tt := range tests {
		s := mustBuild(t, tt.sampleRate, 1, func(b *Builder) *Builder { return b.Window(tt.window) })
		if got := s.StartDelay(); got != tt.want {
			t.Errorf("StartDelay() at %d Hz with %s window = %d, want %d",
				tt.sampleRate, tt.window, got, tt.want)
		}
	}
}

func TestStartDelayTracksPitchScale(t *testing.T) {
	s := mustBuild(t, 48000, 1)

	tests := []struct {
		scale float64
		want  uint32
	}{
		{0.5, 3648},
		{1.0, 2112},
		{2.0, 2880},
	}
	for _, tt := range tests {
		s.SetPitchScale(tt.scale)
		if got := s.StartDelay(); got != tt.want {
			t.Errorf("StartDelay() at pitch scale %v = %d, want %d", tt.scale, got, tt.want)
		}
	}
}

func TestProcessIntoStereo(t *testing.T) {
	s := mustBuild(t, 44100, 2)
	block := int(s.BlockSize())

	in := makeBlock(2, block)
	copy(in[0], testsignal.Sine32(block, 44100, 440, 0.5))
	copy(in[1], testsignal.Sine32(block, 44100, 440, 0.3))
	out := makeBlock(2, block)

	if err := s.ProcessInto(in, out); err != nil {
		t.Fatalf("ProcessInto: %v", err)
	}
}

func TestResetReproducesInitialTransient(t *testing.T) {
	s := mustBuild(t, 44100, 1)
	block := int(s.BlockSize())
	delay := int(s.StartDelay())
	blocksForDelay := (delay + block - 1) / block

	in := makeBlock(1, block)
	fillBlock(in, 0.5)
	out := makeBlock(1, block)

	// Run past the start delay so the output carries signal.
	for i := 0; i <= blocksForDelay; i++ {
		if err := s.ProcessInto(in, out); err != nil {
			t.Fatalf("ProcessInto: %v", err)
		}
	}
	allZero := true
	for _, v := range out[0] {
		if v != 0 {
			allZero = false
			break
		}
	}
	if allZero {
		t.Fatal("output still silent after the start delay; cannot observe the reset transient")
	}

	// Reset clears history: the first block afterwards is inside the
	// initial transient again, i.e. silent.
	s.Reset()
	if err := s.ProcessInto(in, out); err != nil {
		t.Fatalf("ProcessInto after Reset: %v", err)
	}
	for i, v := range out[0] {
		if v != 0 {
			t.Fatalf("output[%d] = %v right after Reset, want leading silence", i, v)
		}
	}
}

func TestPitchShiftOctaveUp(t *testing.T) {
	const sampleRate = 44100
	const inputFreq = 440.0

	s := mustBuild(t, sampleRate, 1)
	s.SetPitchScale(2.0)

	block := int(s.BlockSize())
	delay := int(s.StartDelay())
	blocksForDelay := (delay + block - 1) / block
	const measureBlocks = 8
	total := blocksForDelay + measureBlocks

	out := makeBlock(1, block)
	processed := make([]float32, 0, total*block)
	for b := 0; b < total; b++ {
		in := [][]float32{testsignal.Sine32At(block, b*block, sampleRate, inputFreq, 0.8)}
		if err := s.ProcessInto(in, out); err != nil {
			t.Fatalf("ProcessInto: %v", err)
		}
		processed = append(processed, out[0]...)
	}

	// Measure past the start delay; the shifted tone should sit an
	// octave above the input within half a semitone.
	segment := processed[blocksForDelay*block:]
	measured := testsignal.PeakFrequency(segment, sampleRate)
	if cents := testsignal.CentsBetween(measured, inputFreq*2); math.Abs(cents) > 50 {
		t.Errorf("dominant output frequency = %.1f Hz (%.1f cents from %0.f Hz), want within 50 cents",
			measured, cents, inputFreq*2)
	}
}

func BenchmarkProcessInto(b *testing.B) {
	builder, err := NewBuilder(48000, 2)
	if err != nil {
		b.Fatal(err)
	}
	s := builder.Build()
	defer s.Close()
	s.SetPitchSemitones(3)

	block := int(s.BlockSize())
	in := [][]float32{
		testsignal.Sine32(block, 48000, 440, 0.5),
		testsignal.Sine32(block, 48000, 440, 0.5),
	}
	out := makeBlock(2, block)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := s.ProcessInto(in, out); err != nil {
			b.Fatal(err)
		}
	}
}
