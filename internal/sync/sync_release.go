//go:build !deadlock

// Package sync selects the mutex implementation used by the stream core.
// Release builds use the standard library; build with -tags deadlock to
// swap in go-deadlock.
package sync

import "sync"

// Mutex guards subscriber registries and dispose bags.
type Mutex = sync.Mutex

// Once is the standard sync.Once.
type Once = sync.Once

// DetectionEnabled reports whether lock-order checking is compiled in.
func DetectionEnabled() bool {
	return false
}
