// SPDX-License-Identifier: MIT
package engine

// The noise gate keeps near-silent blocks out of the spectrum monitor so
// idle inputs do not produce noise-floor frames. It never gates playback.

func (e *Engine) EnableGate() {
	e.gateEnabled = true
}

func (e *Engine) DisableGate() {
	e.gateEnabled = false
}

// SetGateThreshold adjusts the gate threshold. The value is clamped to
// 0.0-1.0 of full scale, where 0 leaves the gate always open.
func (e *Engine) SetGateThreshold(threshold float64) {
	if threshold < 0.0 {
		threshold = 0.0
	}
	if threshold > 1.0 {
		threshold = 1.0
	}
	e.gateThreshold = float32(threshold)
}

// GateThreshold returns the current gate threshold in the range 0.0-1.0.
func (e *Engine) GateThreshold() float64 {
	return float64(e.gateThreshold)
}

// blockPeak returns the largest absolute sample across all channels.
// Hot path: no allocations.
func blockPeak(chans [][]float32) float32 {
	var peak float32
	for _, ch := range chans {
		for _, s := range ch {
			if s < 0 {
				s = -s
			}
			if s > peak {
				peak = s
			}
		}
	}
	return peak
}
