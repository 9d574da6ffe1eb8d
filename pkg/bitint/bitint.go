// SPDX-License-Identifier: MIT
// Package bitint provides small bit-twiddling helpers for power-of-two
// buffer sizing.
package bitint

// IsPowerOfTwo reports whether n is a positive power of two.
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// NextPowerOfTwo returns the smallest power of two greater than or equal
// to n. Values below 1 return 1.
func NextPowerOfTwo(n int) int {
	if n < 1 {
		return 1
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
