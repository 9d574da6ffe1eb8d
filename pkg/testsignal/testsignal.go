// SPDX-License-Identifier: MIT
// Package testsignal provides deterministic signal generators and
// measurement helpers shared by tests across the module.
package testsignal

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/dsp/window"
)

// Sine32 returns n samples of a sine wave at the given frequency,
// sample rate, and amplitude, starting at phase zero.
func Sine32(n int, sampleRate, frequency, amplitude float64) []float32 {
	buf := make([]float32, n)
	omega := 2 * math.Pi * frequency / sampleRate
	for i := range buf {
		buf[i] = float32(amplitude * math.Sin(omega*float64(i)))
	}
	return buf
}

// Sine32At is Sine32 with an explicit starting sample index, so a signal
// can be generated block by block without phase discontinuities.
func Sine32At(n, start int, sampleRate, frequency, amplitude float64) []float32 {
	buf := make([]float32, n)
	omega := 2 * math.Pi * frequency / sampleRate
	for i := range buf {
		buf[i] = float32(amplitude * math.Sin(omega*float64(start+i)))
	}
	return buf
}

// Harmonic32 returns a 440 Hz fundamental with two harmonics, useful as a
// "rich" test signal.
func Harmonic32(n int, sampleRate float64) []float32 {
	buf := make([]float32, n)
	for i := range buf {
		t := float64(i) / sampleRate
		buf[i] = float32(math.Sin(2*math.Pi*440*t)*0.5 +
			math.Sin(2*math.Pi*880*t)*0.3 +
			math.Sin(2*math.Pi*1320*t)*0.2)
	}
	return buf
}

// PeakFrequency estimates the dominant frequency of x in Hz by locating
// the largest FFT magnitude bin of the Hann-windowed signal. The
// resolution is sampleRate/len(x); use a window long enough for the
// tolerance at hand.
func PeakFrequency(x []float32, sampleRate float64) float64 {
	input := make([]float64, len(x))
	for i, v := range x {
		input[i] = float64(v)
	}
	window.Hann(input)

	fft := fourier.NewFFT(len(input))
	coeffs := fft.Coefficients(nil, input)

	peakBin := 1 // skip DC
	peakMag := 0.0
	for bin := 1; bin < len(coeffs); bin++ {
		re, im := real(coeffs[bin]), imag(coeffs[bin])
		if mag := re*re + im*im; mag > peakMag {
			peakMag = mag
			peakBin = bin
		}
	}
	return fft.Freq(peakBin) * sampleRate
}

// CentsBetween returns the interval from reference to measured in cents.
func CentsBetween(measured, reference float64) float64 {
	return 1200 * math.Log2(measured/reference)
}

// CaptureTransport stores every frame it is handed, for inspecting what a
// processor would have published.
type CaptureTransport struct {
	Frames [][]float64
}

// Send appends a copy of data to Frames.
func (c *CaptureTransport) Send(data []float64) error {
	frame := make([]float64, len(data))
	copy(frame, data)
	c.Frames = append(c.Frames, frame)
	return nil
}

// Last returns the most recent frame, or nil if none was sent.
func (c *CaptureTransport) Last() []float64 {
	if len(c.Frames) == 0 {
		return nil
	}
	return c.Frames[len(c.Frames)-1]
}
