// SPDX-License-Identifier: MIT
/*
Package engine runs the live pitch-shifting loop: it opens a duplex
PortAudio stream, feeds captured blocks through the shifter, and hands the
shifted output to playback, the spectrum monitor, and the recorder.

The audio callback is the hot path:
  - Pre-allocated buffers only, no allocations per block
  - Locks the OS thread while processing
  - Falls back to passthrough when the shifter is busy with a control
    operation, so playback never stalls
*/
package engine

import (
	"errors"
	"os"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/gordonklaus/portaudio"

	"liveshift/internal/config"
	"liveshift/internal/spectrum"
	"liveshift/pkg/shifter"
)

// Engine owns the duplex stream and the per-block processing state.
type Engine struct {
	cfg     *config.Config
	shifter *shifter.LiveShifter

	inputDevice   *portaudio.DeviceInfo
	outputDevice  *portaudio.DeviceInfo
	inputLatency  time.Duration
	outputLatency time.Duration
	stream        *portaudio.Stream

	// Spectrum monitoring of the shifted output; nil disables it.
	spectrum *spectrum.Processor

	// Noise gate deciding whether a block is worth monitoring.
	gateEnabled   bool
	gateThreshold float32

	// Recording state and reusable conversion buffer.
	recording   atomic.Bool
	outputFile  *os.File
	wavEncoder  *wav.Encoder
	sampleBuf   *audio.IntBuffer
	sampleScale float64

	// Blocks passed through unshifted because a control operation held
	// the shifter, and blocks dropped because of a shape error.
	fallbackBlocks atomic.Uint64
	droppedBlocks  atomic.Uint64
}

// New resolves the configured devices and prepares the engine. The stream
// is not opened until Start.
func New(cfg *config.Config, sh *shifter.LiveShifter, spec *spectrum.Processor) (*Engine, error) {
	inputDevice, err := InputDevice(cfg.Audio.InputDevice)
	if err != nil {
		return nil, err
	}
	outputDevice, err := OutputDevice(cfg.Audio.OutputDevice)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:           cfg,
		shifter:       sh,
		inputDevice:   inputDevice,
		outputDevice:  outputDevice,
		spectrum:      spec,
		gateEnabled:   true,
		gateThreshold: 0.001,
	}

	if cfg.Audio.LowLatency {
		e.inputLatency = inputDevice.DefaultLowInputLatency
		e.outputLatency = outputDevice.DefaultLowOutputLatency
	} else {
		e.inputLatency = inputDevice.DefaultHighInputLatency
		e.outputLatency = outputDevice.DefaultHighOutputLatency
	}

	return e, nil
}

// Start opens and starts the duplex stream. The block size is dictated by
// the shifter; PortAudio is asked for exactly that many frames per buffer.
func (e *Engine) Start() error {
	params := portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Device:   e.inputDevice,
			Channels: e.cfg.Audio.Channels,
			Latency:  e.inputLatency,
		},
		Output: portaudio.StreamDeviceParameters{
			Device:   e.outputDevice,
			Channels: e.cfg.Audio.Channels,
			Latency:  e.outputLatency,
		},
		FramesPerBuffer: int(e.shifter.BlockSize()),
		SampleRate:      e.cfg.Audio.SampleRate,
	}

	stream, err := portaudio.OpenStream(params, e.processStream)
	if err != nil {
		return err
	}
	e.stream = stream

	if err := e.stream.Start(); err != nil {
		e.stream.Close()
		e.stream = nil
		return err
	}
	return nil
}

// Stop stops and closes the stream. Safe to call when not started.
func (e *Engine) Stop() error {
	if e.stream == nil {
		return nil
	}
	if err := e.stream.Stop(); err != nil {
		return err
	}
	if err := e.stream.Close(); err != nil {
		return err
	}
	e.stream = nil
	return nil
}

// Close stops recording and the stream. The shifter is owned by the caller
// and stays open.
func (e *Engine) Close() error {
	if e.recording.Load() {
		if err := e.StopRecording(); err != nil {
			return err
		}
	}
	return e.Stop()
}

// FallbackBlocks returns how many blocks bypassed the shifter because a
// control operation held it.
func (e *Engine) FallbackBlocks() uint64 { return e.fallbackBlocks.Load() }

// DroppedBlocks returns how many blocks were silenced due to a buffer
// shape error.
func (e *Engine) DroppedBlocks() uint64 { return e.droppedBlocks.Load() }

// processStream is the duplex audio callback. PortAudio hands us
// non-interleaved buffers, one slice per channel, matching the shifter's
// layout exactly.
func (e *Engine) processStream(in, out [][]float32) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	err := e.shifter.ProcessInto(in, out)
	switch {
	case err == nil:
	case errors.Is(err, shifter.ErrOperationInProgress):
		// A reset or delay query holds the shifter. Passing the dry
		// input through keeps playback gap-free; the next block picks
		// the shifted path back up.
		for ch := range out {
			copy(out[ch], in[ch])
		}
		e.fallbackBlocks.Add(1)
	default:
		// Shape errors mean the stream and shifter disagree about the
		// format. Emit silence rather than stale buffer contents.
		for ch := range out {
			for i := range out[ch] {
				out[ch][i] = 0
			}
		}
		e.droppedBlocks.Add(1)
		return
	}

	if e.spectrum != nil && (!e.gateEnabled || blockPeak(out) > e.gateThreshold) {
		e.spectrum.Process(out[0])
	}

	if e.recording.Load() && e.wavEncoder != nil {
		e.writeRecordingBlock(out)
	}
}
