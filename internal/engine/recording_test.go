// SPDX-License-Identifier: MIT
package engine

import "testing"

func TestInterleaveOrdersAndScales(t *testing.T) {
	chans := [][]float32{
		{0.5, -0.5},
		{0.25, 1.0},
	}
	dst := make([]int, 4)
	scale := 32767.0

	n := interleave(chans, dst, scale)
	if n != 4 {
		t.Fatalf("interleave wrote %d samples, want 4", n)
	}

	want := []int{
		int(0.5 * scale), int(0.25 * scale), // frame 0: ch0, ch1
		int(-0.5 * scale), int(1.0 * scale), // frame 1
	}
	for i := range want {
		if dst[i] != want[i] {
			t.Errorf("dst[%d] = %d, want %d", i, dst[i], want[i])
		}
	}
}

func TestInterleaveClampsOutOfRange(t *testing.T) {
	chans := [][]float32{{1.5, -2.0}}
	dst := make([]int, 2)
	scale := 32767.0

	interleave(chans, dst, scale)
	if dst[0] != 32767 {
		t.Errorf("over-range sample = %d, want 32767", dst[0])
	}
	if dst[1] != -32767 {
		t.Errorf("under-range sample = %d, want -32767", dst[1])
	}
}

func TestInterleaveEmptyInput(t *testing.T) {
	if n := interleave(nil, nil, 32767); n != 0 {
		t.Errorf("interleave(nil) = %d, want 0", n)
	}
}

func TestInterleaveHotPath(t *testing.T) {
	chans := [][]float32{make([]float32, 512), make([]float32, 512)}
	dst := make([]int, 1024)

	interleave(chans, dst, 32767) // warm up
	allocs := testing.AllocsPerRun(100, func() {
		interleave(chans, dst, 32767)
	})
	if allocs > 0 {
		t.Errorf("expected zero allocations in interleave, got %.1f", allocs)
	}
}
