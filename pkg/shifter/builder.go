// SPDX-License-Identifier: MIT
package shifter

import (
	"liveshift/internal/rubberband"
)

// Builder configures and creates a LiveShifter. Obtain one with
// NewBuilder, chain the option setters, then call Build.
//
// Window and channel mode are baked into the engine at Build and have no
// effect afterwards; the formant option merely seeds the live instance and
// can later be changed with SetFormantOption.
type Builder struct {
	sampleRate  uint32
	channels    uint32
	window      Window
	formant     Formant
	channelMode ChannelMode
	debugLevel  int
}

// NewBuilder returns a builder with the default options: short window,
// shifted formants, channels processed apart, debug level 0.
//
// It fails with UnsupportedSampleRateError or UnsupportedChannelCountError
// when the corresponding argument is zero; no engine resources are
// allocated in that case.
func NewBuilder(sampleRate, channels uint32) (*Builder, error) {
	if sampleRate == 0 {
		return nil, UnsupportedSampleRateError{SampleRate: sampleRate}
	}
	if channels == 0 {
		return nil, UnsupportedChannelCountError{Channels: channels}
	}
	return &Builder{
		sampleRate:  sampleRate,
		channels:    channels,
		window:      WindowShort,
		formant:     FormantShifted,
		channelMode: ChannelsApart,
	}, nil
}

// Window sets the processing window size. Fixed once Build has run.
func (b *Builder) Window(w Window) *Builder {
	b.window = w
	return b
}

// Formant sets the initial formant option.
func (b *Builder) Formant(f Formant) *Builder {
	b.formant = f
	return b
}

// ChannelMode sets the multi-channel processing mode. Fixed once Build has
// run.
func (b *Builder) ChannelMode(m ChannelMode) *Builder {
	b.channelMode = m
	return b
}

// DebugLevel sets the engine's debug verbosity. Only level 0 is
// guaranteed realtime-safe.
func (b *Builder) DebugLevel(level int) *Builder {
	b.debugLevel = level
	return b
}

// Build assembles the engine option bitmask, creates the engine instance,
// and returns the facade with a staged pitch scale of 1.0 (no shift).
func (b *Builder) Build() *LiveShifter {
	var opts rubberband.Options
	switch b.window {
	case WindowMedium:
		opts |= rubberband.OptionWindowMedium
	default:
		opts |= rubberband.OptionWindowShort
	}
	opts |= formantOptionBits(b.formant)
	switch b.channelMode {
	case ChannelsTogether:
		opts |= rubberband.OptionChannelsTogether
	default:
		opts |= rubberband.OptionChannelsApart
	}

	eng := &liveEngine{Live: rubberband.New(b.sampleRate, b.channels, opts, b.debugLevel)}
	return newLiveShifter(eng, b.sampleRate)
}

func formantOptionBits(f Formant) rubberband.Options {
	if f == FormantPreserved {
		return rubberband.OptionFormantPreserved
	}
	return rubberband.OptionFormantShifted
}

// liveEngine adapts the rubberband binding to the Engine interface,
// translating the formant enum to the native option bits.
type liveEngine struct {
	*rubberband.Live
}

func (e *liveEngine) SetFormantOption(formant Formant) {
	e.Live.SetFormantOption(formantOptionBits(formant))
}

var _ Engine = (*liveEngine)(nil)
