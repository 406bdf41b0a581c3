//go:build deadlock

// Package sync selects the mutex implementation used by the stream core.
// Release builds use the standard library; build with -tags deadlock to
// swap in go-deadlock.
package sync

import (
	"os"
	"sync"
	"time"

	"github.com/sasha-s/go-deadlock"
)

// Mutex guards subscriber registries and dispose bags.
type Mutex = deadlock.Mutex

// Once is the standard sync.Once.
type Once = sync.Once

// DetectionEnabled reports whether lock-order checking is compiled in.
func DetectionEnabled() bool {
	return !deadlock.Opts.Disable
}

func init() {
	// Callbacks run outside the lock, so anything held this long is a bug.
	deadlock.Opts.DeadlockTimeout = 10 * time.Second

	if os.Getenv("RELAYKIT_NO_DEADLOCK_DETECT") != "" {
		deadlock.Opts.Disable = true
		return
	}

	deadlock.Opts.PrintAllCurrentGoroutines = true
	deadlock.Opts.OnPotentialDeadlock = func() {
		os.Exit(2)
	}
}
