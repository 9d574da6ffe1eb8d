// SPDX-License-Identifier: MIT
/*
Package shifter provides a concurrency-safe facade over a fixed-block live
pitch-shifting engine.

The engine processes audio in constant-size blocks (BlockSize frames per
channel, fixed for the lifetime of an instance) and introduces a processing
delay that StartDelay reports. Instances are created through a Builder,
which validates the configuration and bakes the build-time options (window
size, channel mode) into the engine.

# Thread safety

A LiveShifter may be shared freely between goroutines:

  - ProcessInto and Process never block. If another guarded operation
    (ProcessInto, Process, Reset, StartDelay) is executing on the same
    instance they fail fast with ErrOperationInProgress, so they are safe
    to call from a real-time audio callback. Treat that error as
    backpressure: skip the block or emit the input unshifted, and retry on
    the next callback.
  - SetPitchScale, SetPitchSemitones, and SetPitchCents are lock-free.
    They stage the new ratio atomically and return immediately; the value
    is pushed into the engine at the start of the next guarded operation.
    PitchScale reads back the staged value, so a set is visible to readers
    before it has reached the engine.
  - Reset and StartDelay block until any in-flight guarded operation
    finishes. Avoid them on latency-sensitive threads.
  - SetFormantScale, FormantScale, SetFormantOption, ChannelCount, and
    BlockSize forward to the engine, which guarantees they are safe
    concurrently with processing. SampleRate is a cached immutable value.

Input and output buffers passed to ProcessInto must not alias; that
precondition is not checked at runtime.
*/
package shifter
