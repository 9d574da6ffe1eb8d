// SPDX-License-Identifier: MIT
package engine

import (
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	applog "liveshift/internal/log"
)

// StartRecording begins writing the shifted output to a WAV file using the
// configured bit depth. Only one recording can be active at a time.
func (e *Engine) StartRecording(filename string) error {
	if e.recording.Load() {
		return fmt.Errorf("already recording")
	}

	bitDepth := e.cfg.Recording.BitDepth
	if bitDepth != 16 && bitDepth != 24 {
		return fmt.Errorf("unsupported recording bit depth: %d", bitDepth)
	}

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	e.outputFile = file

	channels := e.cfg.Audio.Channels
	sampleRate := int(e.cfg.Audio.SampleRate)
	e.wavEncoder = wav.NewEncoder(file, sampleRate, bitDepth, channels, 1)
	e.sampleScale = float64(int(1)<<(bitDepth-1)) - 1

	frames := int(e.shifter.BlockSize())
	e.sampleBuf = &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: channels,
			SampleRate:  sampleRate,
		},
		SourceBitDepth: bitDepth,
		Data:           make([]int, frames*channels),
	}

	e.recording.Store(true)
	applog.Infof("engine: recording to %s (%d-bit)", filename, bitDepth)
	return nil
}

// StopRecording finalizes the WAV file. Calling it when not recording is a
// no-op.
func (e *Engine) StopRecording() error {
	if !e.recording.Load() {
		return nil
	}
	e.recording.Store(false)

	if e.wavEncoder != nil {
		if err := e.wavEncoder.Close(); err != nil {
			return err
		}
		e.wavEncoder = nil
	}
	if e.outputFile != nil {
		if err := e.outputFile.Close(); err != nil {
			return err
		}
		e.outputFile = nil
	}
	applog.Infof("engine: recording stopped")
	return nil
}

// writeRecordingBlock converts one shifted block to interleaved integer
// samples and appends it to the WAV file. Runs on the audio path with the
// pre-allocated sample buffer.
func (e *Engine) writeRecordingBlock(out [][]float32) {
	n := interleave(out, e.sampleBuf.Data[:cap(e.sampleBuf.Data)], e.sampleScale)
	e.sampleBuf.Data = e.sampleBuf.Data[:n]

	if err := e.wavEncoder.Write(e.sampleBuf); err != nil {
		applog.Errorf("engine: error writing WAV block: %v", err)
	}
}

// interleave converts non-interleaved float32 channels to interleaved
// integer samples in dst, clamping to full scale. It returns the number of
// samples written. dst must have capacity for frames * channels values.
func interleave(chans [][]float32, dst []int, scale float64) int {
	if len(chans) == 0 {
		return 0
	}
	channels := len(chans)
	frames := len(chans[0])
	dst = dst[:frames*channels]

	for i := 0; i < frames; i++ {
		for c := 0; c < channels; c++ {
			s := chans[c][i]
			if s > 1 {
				s = 1
			} else if s < -1 {
				s = -1
			}
			dst[i*channels+c] = int(float64(s) * scale)
		}
	}
	return frames * channels
}
