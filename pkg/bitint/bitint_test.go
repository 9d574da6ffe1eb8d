// SPDX-License-Identifier: MIT
package bitint

import "testing"

func TestIsPowerOfTwo(t *testing.T) {
	cases := []struct {
		n    int
		want bool
	}{
		{-2, false},
		{0, false},
		{1, true},
		{2, true},
		{3, false},
		{512, true},
		{1023, false},
		{1024, true},
	}
	for _, tc := range cases {
		if got := IsPowerOfTwo(tc.n); got != tc.want {
			t.Errorf("IsPowerOfTwo(%d) = %v, want %v", tc.n, got, tc.want)
		}
	}
}

func TestNextPowerOfTwo(t *testing.T) {
	cases := []struct {
		n, want int
	}{
		{-5, 1},
		{0, 1},
		{1, 1},
		{2, 2},
		{3, 4},
		{513, 1024},
		{2048, 2048},
	}
	for _, tc := range cases {
		if got := NextPowerOfTwo(tc.n); got != tc.want {
			t.Errorf("NextPowerOfTwo(%d) = %d, want %d", tc.n, got, tc.want)
		}
	}
}
