// SPDX-License-Identifier: MIT
// Package spectrum computes magnitude spectra of the shifted output for
// monitoring clients. Processing is allocation-free once constructed.
package spectrum

import (
	"fmt"
	"math/cmplx"
	"sync"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/dsp/window"

	"liveshift/pkg/bitint"
)

// Transport delivers a magnitude frame to monitoring clients.
// Implementations must be safe for concurrent use and do their own rate
// limiting; Send is called from the audio path and must not block.
type Transport interface {
	Send(data []float64) error
}

// workspace holds the pre-allocated buffers for one transform.
type workspace struct {
	input     []float64    // windowed, scaled input samples
	coeffs    []complex128 // complex FFT output
	magnitude []float64    // magnitude per bin, guarded by mu
	window    []float64    // Hann coefficients
}

// Processor turns fixed-size float32 blocks into magnitude spectra and
// forwards them to a Transport. Process is called from the audio callback;
// readers use GetMagnitudesInto from their own goroutines.
type Processor struct {
	fftSize    int
	sampleRate float64
	fft        *fourier.FFT
	transport  Transport

	mu sync.RWMutex // guards workspace.magnitude
	ws workspace
}

// NewProcessor builds a processor for the given transform size. The size
// must be a power of two so the transform stays cheap enough for the audio
// path. A nil transport disables publishing while keeping magnitudes
// readable.
func NewProcessor(fftSize int, sampleRate float64, transport Transport) (*Processor, error) {
	if !bitint.IsPowerOfTwo(fftSize) {
		return nil, fmt.Errorf("spectrum: fft size must be a power of 2, got %d", fftSize)
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("spectrum: sample rate must be positive, got %v", sampleRate)
	}

	// window.Hann scales a slice in place, so applying it to all ones
	// yields the raw coefficients.
	hann := make([]float64, fftSize)
	for i := range hann {
		hann[i] = 1
	}
	window.Hann(hann)

	bins := fftSize/2 + 1
	return &Processor{
		fftSize:    fftSize,
		sampleRate: sampleRate,
		fft:        fourier.NewFFT(fftSize),
		transport:  transport,
		ws: workspace{
			input:     make([]float64, fftSize),
			coeffs:    make([]complex128, bins),
			magnitude: make([]float64, bins),
			window:    hann,
		},
	}, nil
}

// Process transforms one block of samples and publishes the magnitudes.
// Blocks shorter than the transform size are zero padded; longer blocks are
// truncated. Runs on the audio path: no allocations.
func (p *Processor) Process(buffer []float32) {
	for i := 0; i < p.fftSize; i++ {
		if i < len(buffer) {
			p.ws.input[i] = float64(buffer[i]) * p.ws.window[i]
		} else {
			p.ws.input[i] = 0
		}
	}

	_ = p.fft.Coefficients(p.ws.coeffs, p.ws.input)

	p.mu.Lock()
	for i := range p.ws.coeffs {
		p.ws.magnitude[i] = cmplx.Abs(p.ws.coeffs[i])
	}
	p.mu.Unlock()

	if p.transport != nil {
		_ = p.transport.Send(p.ws.magnitude)
	}
}

// GetMagnitudesInto copies the latest magnitude frame into dst, which must
// have exactly BinCount elements. Safe to call concurrently with Process.
func (p *Processor) GetMagnitudesInto(dst []float64) error {
	if len(dst) != len(p.ws.magnitude) {
		return fmt.Errorf("spectrum: destination length %d, want %d", len(dst), len(p.ws.magnitude))
	}
	p.mu.RLock()
	copy(dst, p.ws.magnitude)
	p.mu.RUnlock()
	return nil
}

// GetFrequencyForBin returns the center frequency in Hz of the given bin.
// Out-of-range indices return 0.
func (p *Processor) GetFrequencyForBin(i int) float64 {
	if i < 0 || i >= len(p.ws.magnitude) {
		return 0
	}
	return p.fft.Freq(i) * p.sampleRate
}

// FFTSize returns the transform size in samples.
func (p *Processor) FFTSize() int { return p.fftSize }

// BinCount returns the number of magnitude bins per frame.
func (p *Processor) BinCount() int { return len(p.ws.magnitude) }
