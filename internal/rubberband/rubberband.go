// SPDX-License-Identifier: MIT
/*
Package rubberband binds the Rubber Band Live Shifter C API.

The live shifter is a stateful, fixed-block pitch shifter: every call to
Shift consumes and produces exactly BlockSize frames per channel. This
package is a thin, unsynchronized wrapper around the native handle. The
native library only guarantees instance-level parallelism; serializing
Shift, Reset, and pitch-scale changes on a single instance is the caller's
job (see pkg/shifter, which layers that contract on top).

Sample data crosses the cgo boundary through C-allocated staging buffers so
that no Go pointer is ever handed to native code.
*/
package rubberband

/*
#cgo pkg-config: rubberband
#include <stdlib.h>
#include <rubberband/rubberband-c.h>
*/
import "C"

import "unsafe"

// Options is the option bitmask passed to New. OR together one flag from
// each group. The zero value selects the short window, shifted formants,
// and channels processed apart.
type Options uint32

const (
	OptionWindowShort  Options = C.RubberBandLiveOptionWindowShort
	OptionWindowMedium Options = C.RubberBandLiveOptionWindowMedium

	OptionFormantShifted   Options = C.RubberBandLiveOptionFormantShifted
	OptionFormantPreserved Options = C.RubberBandLiveOptionFormantPreserved

	OptionChannelsApart    Options = C.RubberBandLiveOptionChannelsApart
	OptionChannelsTogether Options = C.RubberBandLiveOptionChannelsTogether
)

// Live owns one native RubberBandLiveShifter instance together with the
// C-side staging buffers used to marshal sample data for Shift.
//
// Live is not safe for concurrent use. It must be released with Close
// exactly once; every method has undefined behavior after Close.
type Live struct {
	state C.RubberBandLiveState

	channels int
	block    int

	// C-allocated staging memory: one contiguous sample block per
	// direction plus the per-channel pointer arrays the C API expects.
	inData  *C.float
	outData *C.float
	inPtrs  **C.float
	outPtrs **C.float

	// Go views over the staging memory, one slice per channel.
	inView  [][]float32
	outView [][]float32
}

// New creates a live shifter for the given sample rate and channel count.
// Both must be greater than zero; the native library does not validate
// them, so callers are expected to (pkg/shifter does).
func New(sampleRate, channels uint32, options Options, debugLevel int) *Live {
	state := C.rubberband_live_new(C.uint(sampleRate), C.uint(channels), C.RubberBandLiveOptions(options))
	if debugLevel != 0 {
		C.rubberband_live_set_debug_level(state, C.int(debugLevel))
	}

	l := &Live{
		state:    state,
		channels: int(channels),
		block:    int(C.rubberband_live_get_block_size(state)),
	}
	l.inData, l.inPtrs, l.inView = allocBlock(l.channels, l.block)
	l.outData, l.outPtrs, l.outView = allocBlock(l.channels, l.block)
	return l
}

// allocBlock reserves channels*block floats of C memory plus the channel
// pointer array, and returns per-channel Go views over the same memory.
func allocBlock(channels, block int) (*C.float, **C.float, [][]float32) {
	data := (*C.float)(C.malloc(C.size_t(channels*block) * C.sizeof_float))
	ptrs := (**C.float)(C.malloc(C.size_t(channels) * C.size_t(unsafe.Sizeof((*C.float)(nil)))))

	samples := unsafe.Slice((*float32)(unsafe.Pointer(data)), channels*block)
	cptrs := unsafe.Slice(ptrs, channels)

	views := make([][]float32, channels)
	for ch := 0; ch < channels; ch++ {
		views[ch] = samples[ch*block : (ch+1)*block]
		cptrs[ch] = (*C.float)(unsafe.Pointer(&samples[ch*block]))
	}
	return data, ptrs, views
}

// SetPitchScale sets the frequency ratio applied by subsequent Shift calls.
// Not safe to call concurrently with Shift.
func (l *Live) SetPitchScale(scale float64) {
	C.rubberband_live_set_pitch_scale(l.state, C.double(scale))
}

// PitchScale returns the ratio currently applied by the native instance.
func (l *Live) PitchScale() float64 {
	return float64(C.rubberband_live_get_pitch_scale(l.state))
}

// SetFormantScale sets an explicit formant envelope scale, or 0 to restore
// automatic scaling from the formant option. Safe concurrently with Shift.
func (l *Live) SetFormantScale(scale float64) {
	C.rubberband_live_set_formant_scale(l.state, C.double(scale))
}

// FormantScale returns the explicit formant scale, or 0 when automatic.
func (l *Live) FormantScale() float64 {
	return float64(C.rubberband_live_get_formant_scale(l.state))
}

// SetFormantOption switches between OptionFormantShifted and
// OptionFormantPreserved. Safe concurrently with Shift.
func (l *Live) SetFormantOption(option Options) {
	C.rubberband_live_set_formant_option(l.state, C.RubberBandLiveOptions(option))
}

// StartDelay returns the output alignment delay in frames at the pitch
// scale currently applied. Not safe concurrently with Shift.
func (l *Live) StartDelay() uint32 {
	return uint32(C.rubberband_live_get_start_delay(l.state))
}

// ChannelCount returns the channel count fixed at construction.
func (l *Live) ChannelCount() uint32 {
	return uint32(C.rubberband_live_get_channel_count(l.state))
}

// BlockSize returns the frames-per-channel block size fixed at construction.
func (l *Live) BlockSize() uint32 {
	return uint32(l.block)
}

// Shift processes exactly one block. input and output must each hold
// ChannelCount slices of BlockSize samples; Shift copies through the C
// staging buffers without allocating. Not safe for concurrent use.
func (l *Live) Shift(input, output [][]float32) {
	for ch := 0; ch < l.channels; ch++ {
		copy(l.inView[ch], input[ch])
	}
	C.rubberband_live_shift(l.state, l.inPtrs, l.outPtrs)
	for ch := 0; ch < l.channels; ch++ {
		copy(output[ch], l.outView[ch])
	}
}

// Reset drops accumulated history and internal buffers while keeping all
// parameter settings. Not safe concurrently with Shift.
func (l *Live) Reset() {
	C.rubberband_live_reset(l.state)
}

// Close releases the native instance and its staging memory. Close is
// idempotent; no other method may be called afterwards.
func (l *Live) Close() {
	if l.state == nil {
		return
	}
	C.rubberband_live_delete(l.state)
	l.state = nil

	C.free(unsafe.Pointer(l.inData))
	C.free(unsafe.Pointer(l.outData))
	C.free(unsafe.Pointer(l.inPtrs))
	C.free(unsafe.Pointer(l.outPtrs))
	l.inData, l.outData, l.inPtrs, l.outPtrs = nil, nil, nil, nil
	l.inView, l.outView = nil, nil
}
