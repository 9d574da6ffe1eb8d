// SPDX-License-Identifier: MIT
// Package transport implements delivery of spectrum frames to monitoring
// clients over WebSocket and UDP.
package transport

// Transport sends one magnitude frame to its clients. Implementations must
// be safe for concurrent use; Send is called from the audio path and should
// drop frames rather than block.
type Transport interface {
	Send(data []float64) error
	Close() error
}
