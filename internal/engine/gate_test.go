// SPDX-License-Identifier: MIT
package engine

import (
	"fmt"
	"math"
	"testing"
)

func TestGateEnableDisable(t *testing.T) {
	e := &Engine{gateEnabled: false, gateThreshold: 0.001}

	e.EnableGate()
	if !e.gateEnabled {
		t.Error("gate should be enabled after EnableGate()")
	}
	e.DisableGate()
	if e.gateEnabled {
		t.Error("gate should be disabled after DisableGate()")
	}
	e.EnableGate()
	e.EnableGate() // repeat calls are idempotent
	if !e.gateEnabled {
		t.Error("gate should remain enabled after repeated EnableGate()")
	}
}

func TestGateThresholdBoundaries(t *testing.T) {
	tests := []struct {
		input    float64
		expected float64
	}{
		{-0.1, 0.0},
		{0.0, 0.0},
		{0.5, 0.5},
		{1.0, 1.0},
		{1.5, 1.0},
	}

	e := &Engine{}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%.1f", tt.input), func(t *testing.T) {
			e.SetGateThreshold(tt.input)
			if got := e.GateThreshold(); math.Abs(got-tt.expected) > 0.001 {
				t.Errorf("threshold = %.3f, want %.3f", got, tt.expected)
			}
		})
	}
}

func TestBlockPeak(t *testing.T) {
	tests := []struct {
		name  string
		chans [][]float32
		want  float32
	}{
		{"silence", [][]float32{{0, 0, 0}}, 0},
		{"positive peak", [][]float32{{0.1, 0.5, 0.2}}, 0.5},
		{"negative peak", [][]float32{{0.1, -0.9, 0.2}}, 0.9},
		{"peak in second channel", [][]float32{{0.1, 0.2}, {0.3, -0.7}}, 0.7},
		{"no channels", nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := blockPeak(tt.chans); got != tt.want {
				t.Errorf("blockPeak = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBlockPeakHotPath(t *testing.T) {
	chans := [][]float32{make([]float32, 512), make([]float32, 512)}
	for i := range chans[0] {
		chans[0][i] = float32(i%64) / 64
		chans[1][i] = -float32(i%32) / 32
	}

	blockPeak(chans) // warm up
	allocs := testing.AllocsPerRun(100, func() {
		blockPeak(chans)
	})
	if allocs > 0 {
		t.Errorf("expected zero allocations in blockPeak, got %.1f", allocs)
	}
}
