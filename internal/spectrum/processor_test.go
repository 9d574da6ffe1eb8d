// SPDX-License-Identifier: MIT
package spectrum

import (
	"math"
	"testing"

	"liveshift/pkg/testsignal"
)

const (
	testFFTSize    = 1024
	testSampleRate = 48000
)

func TestNewProcessorRejectsBadSizes(t *testing.T) {
	for _, size := range []int{0, -1, 1000, 1023} {
		if _, err := NewProcessor(size, testSampleRate, nil); err == nil {
			t.Errorf("NewProcessor(%d) accepted a non power of 2 size", size)
		}
	}
	if _, err := NewProcessor(testFFTSize, 0, nil); err == nil {
		t.Error("NewProcessor accepted a zero sample rate")
	}
}

func TestPeakBinMatchesInputFrequency(t *testing.T) {
	p, err := NewProcessor(testFFTSize, testSampleRate, nil)
	if err != nil {
		t.Fatal(err)
	}

	const freq = 1000.0
	p.Process(testsignal.Sine32(testFFTSize, testSampleRate, freq, 0.8))

	mags := make([]float64, p.BinCount())
	if err := p.GetMagnitudesInto(mags); err != nil {
		t.Fatal(err)
	}

	peak := 1 // skip DC
	for i := 2; i < len(mags); i++ {
		if mags[i] > mags[peak] {
			peak = i
		}
	}
	got := p.GetFrequencyForBin(peak)
	binWidth := testSampleRate / float64(testFFTSize)
	if math.Abs(got-freq) > binWidth {
		t.Errorf("peak at %.1f Hz, want %.1f Hz within one bin (%.1f Hz)", got, freq, binWidth)
	}
}

func TestProcessPublishesToTransport(t *testing.T) {
	capture := &testsignal.CaptureTransport{}
	p, err := NewProcessor(testFFTSize, testSampleRate, capture)
	if err != nil {
		t.Fatal(err)
	}

	p.Process(testsignal.Harmonic32(testFFTSize, testSampleRate))

	frame := capture.Last()
	if frame == nil {
		t.Fatal("transport received no frame")
	}
	if len(frame) != p.BinCount() {
		t.Errorf("frame has %d bins, want %d", len(frame), p.BinCount())
	}
}

func TestShortBlockIsZeroPadded(t *testing.T) {
	p, err := NewProcessor(testFFTSize, testSampleRate, nil)
	if err != nil {
		t.Fatal(err)
	}

	p.Process(testsignal.Sine32(512, testSampleRate, 1000, 0.8))

	mags := make([]float64, p.BinCount())
	if err := p.GetMagnitudesInto(mags); err != nil {
		t.Fatal(err)
	}
	var sum float64
	for _, m := range mags {
		sum += m
	}
	if sum == 0 {
		t.Error("expected nonzero spectrum from a short block")
	}
}

func TestGetMagnitudesIntoRejectsWrongLength(t *testing.T) {
	p, err := NewProcessor(testFFTSize, testSampleRate, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := p.GetMagnitudesInto(make([]float64, 3)); err == nil {
		t.Error("expected error for wrong destination length")
	}
}

func TestProcessHotPath(t *testing.T) {
	p, err := NewProcessor(testFFTSize, testSampleRate, nil)
	if err != nil {
		t.Fatal(err)
	}
	input := testsignal.Harmonic32(testFFTSize, testSampleRate)

	p.Process(input) // warm up
	allocs := testing.AllocsPerRun(100, func() {
		p.Process(input)
	})
	if allocs > 0 {
		t.Errorf("expected zero allocations in Process, got %.1f", allocs)
	}
}

func BenchmarkProcess(b *testing.B) {
	p, err := NewProcessor(testFFTSize, testSampleRate, nil)
	if err != nil {
		b.Fatal(err)
	}
	input := testsignal.Harmonic32(testFFTSize, testSampleRate)

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		p.Process(input)
	}
}
