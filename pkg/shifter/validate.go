// SPDX-License-Identifier: MIT
package shifter

// validateShape checks buffer shapes against the engine's channel count
// and block size before any engine call. It is pure and deterministic:
// checks run in a fixed order (input channels, output channels, input
// block sizes, output block sizes) and report the first mismatch found.
func validateShape(input, output [][]float32, channels, block int) error {
	if len(input) != channels {
		return InconsistentChannelCountError{Expected: channels, Actual: len(input)}
	}
	if len(output) != channels {
		return InconsistentChannelCountError{Expected: channels, Actual: len(output)}
	}
	for ch := 0; ch < channels; ch++ {
		if len(input[ch]) != block {
			return InconsistentBlockSizeError{Channel: ch, Expected: block, Actual: len(input[ch])}
		}
	}
	for ch := 0; ch < channels; ch++ {
		if len(output[ch]) != block {
			return InconsistentBlockSizeError{Channel: ch, Expected: block, Actual: len(output[ch])}
		}
	}
	return nil
}
