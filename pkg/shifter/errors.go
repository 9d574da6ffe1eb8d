// SPDX-License-Identifier: MIT
package shifter

import (
	"errors"
	"fmt"
)

// ErrOperationInProgress reports that a guarded operation (ProcessInto,
// Process, Reset, or StartDelay) is already executing on this instance.
// It is returned instead of blocking and should be treated as
// backpressure, not as a hard failure.
var ErrOperationInProgress = errors.New("shifter: an operation (process, reset, or delay query) is already in progress")

// UnsupportedSampleRateError is returned by NewBuilder when the sample
// rate is zero.
type UnsupportedSampleRateError struct {
	SampleRate uint32
}

func (e UnsupportedSampleRateError) Error() string {
	return fmt.Sprintf("shifter: unsupported sample rate: %d", e.SampleRate)
}

// UnsupportedChannelCountError is returned by NewBuilder when the channel
// count is zero.
type UnsupportedChannelCountError struct {
	Channels uint32
}

func (e UnsupportedChannelCountError) Error() string {
	return fmt.Sprintf("shifter: unsupported channel count: %d", e.Channels)
}

// InconsistentChannelCountError reports that an input or output buffer
// holds the wrong number of channel slices.
type InconsistentChannelCountError struct {
	Expected int
	Actual   int
}

func (e InconsistentChannelCountError) Error() string {
	return fmt.Sprintf("shifter: inconsistent channel count: expected %d, got %d", e.Expected, e.Actual)
}

// InconsistentBlockSizeError reports that a specific channel holds the
// wrong number of samples. Channel identifies the first offending channel.
type InconsistentBlockSizeError struct {
	Channel  int
	Expected int
	Actual   int
}

func (e InconsistentBlockSizeError) Error() string {
	return fmt.Sprintf("shifter: inconsistent block size for channel %d: expected %d, got %d",
		e.Channel, e.Expected, e.Actual)
}
