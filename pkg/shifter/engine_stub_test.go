// SPDX-License-Identifier: MIT
package shifter

import (
	"sync/atomic"
	"time"
)

// stubEngine is a deterministic Engine for facade tests. Shift copies
// input straight to output and can be told to hold the guard for a while,
// which widens the contention window for the fail-fast tests.
//
// Every operation the real engine forbids overlapping goes through
// enterUnsafe/leaveUnsafe, so a guard bug in the facade shows up as
// overlapped=true instead of an undetectable data race.
type stubEngine struct {
	channels  int
	block     int
	shiftHold time.Duration

	applied      atomicFloat64 // pitch scale last pushed into the engine
	pitchSets    atomic.Int32
	shifts       atomic.Int32
	resets       atomic.Int32
	closes       atomic.Int32
	formantScale atomicFloat64
	formant      atomic.Int32

	inUnsafe   atomic.Bool
	overlapped atomic.Bool
}

func newStubEngine(channels, block int) *stubEngine {
	e := &stubEngine{channels: channels, block: block}
	e.applied.Store(1.0)
	return e
}

func (e *stubEngine) enterUnsafe() {
	if e.inUnsafe.Swap(true) {
		e.overlapped.Store(true)
	}
}

func (e *stubEngine) leaveUnsafe() { e.inUnsafe.Store(false) }

func (e *stubEngine) SetPitchScale(scale float64) {
	e.enterUnsafe()
	defer e.leaveUnsafe()
	e.pitchSets.Add(1)
	e.applied.Store(scale)
}

func (e *stubEngine) SetFormantScale(scale float64) { e.formantScale.Store(scale) }
func (e *stubEngine) FormantScale() float64         { return e.formantScale.Load() }
func (e *stubEngine) SetFormantOption(f Formant)    { e.formant.Store(int32(f)) }

// StartDelay mimics the real engine coarsely: downward shifts need more
// look-ahead, so the delay grows as the applied scale shrinks.
func (e *stubEngine) StartDelay() uint32 {
	e.enterUnsafe()
	defer e.leaveUnsafe()
	return uint32(1024.0 / e.applied.Load())
}

func (e *stubEngine) ChannelCount() uint32 { return uint32(e.channels) }
func (e *stubEngine) BlockSize() uint32    { return uint32(e.block) }

func (e *stubEngine) Shift(input, output [][]float32) {
	e.enterUnsafe()
	defer e.leaveUnsafe()
	if e.shiftHold > 0 {
		time.Sleep(e.shiftHold)
	}
	for ch := range output {
		copy(output[ch], input[ch])
	}
	e.shifts.Add(1)
}

func (e *stubEngine) Reset() {
	e.enterUnsafe()
	defer e.leaveUnsafe()
	e.resets.Add(1)
}

func (e *stubEngine) Close() { e.closes.Add(1) }

var _ Engine = (*stubEngine)(nil)

// newStubShifter wires a stub engine into a facade the way Build wires the
// real one.
func newStubShifter(channels, block int) (*LiveShifter, *stubEngine) {
	eng := newStubEngine(channels, block)
	return newLiveShifter(eng, 48000), eng
}

// makeBlock allocates channel buffers of n samples each.
func makeBlock(channels, n int) [][]float32 {
	buf := make([][]float32, channels)
	for ch := range buf {
		buf[ch] = make([]float32, n)
	}
	return buf
}

// fillBlock sets every sample of every channel to v.
func fillBlock(buf [][]float32, v float32) {
	for ch := range buf {
		for i := range buf[ch] {
			buf[ch][i] = v
		}
	}
}
