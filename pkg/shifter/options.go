// SPDX-License-Identifier: MIT
package shifter

// Window selects the engine's processing window size. It is fixed at build
// time and cannot be changed on a live instance.
type Window int

const (
	// WindowShort is the default window, tuned for the lowest delay.
	WindowShort Window = iota
	// WindowMedium enables the engine's read-ahead, trading extra delay
	// for smoother output.
	WindowMedium
)

func (w Window) String() string {
	switch w {
	case WindowShort:
		return "short"
	case WindowMedium:
		return "medium"
	default:
		return "unknown"
	}
}

// Formant selects how the spectral envelope follows a pitch change. Unlike
// the other build options it can also be changed on a live instance with
// SetFormantOption.
type Formant int

const (
	// FormantShifted moves formants together with the pitch (default).
	FormantShifted Formant = iota
	// FormantPreserved keeps the formant envelope in place, preserving
	// the perceived timbre.
	FormantPreserved
)

func (f Formant) String() string {
	switch f {
	case FormantShifted:
		return "shifted"
	case FormantPreserved:
		return "preserved"
	default:
		return "unknown"
	}
}

// ChannelMode selects how multi-channel audio is processed. It is fixed at
// build time.
type ChannelMode int

const (
	// ChannelsApart processes channels independently: best per-channel
	// quality, more diffuse stereo image (default).
	ChannelsApart ChannelMode = iota
	// ChannelsTogether processes channels jointly to keep the stereo
	// image stable at some cost in per-channel fidelity.
	ChannelsTogether
)

func (m ChannelMode) String() string {
	switch m {
	case ChannelsApart:
		return "apart"
	case ChannelsTogether:
		return "together"
	default:
		return "unknown"
	}
}
