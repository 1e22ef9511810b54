// FILE: trempy/initfile/timing.go
package initfile

import "time"

// Timing constants for init file watching.
const (
	SpinWaitInterval     = 5 * time.Millisecond   // CPU-friendly busy-wait quantum
	MinPollInterval      = 100 * time.Millisecond // Hard floor for file stat polling
	ShutdownTimeout      = 100 * time.Millisecond // Graceful watcher termination window
	DefaultDebounce      = 500 * time.Millisecond // File change coalescence period
	DefaultPollInterval  = time.Second            // Standard file monitoring frequency
	DefaultReloadTimeout = 5 * time.Second        // Maximum duration for a re-parse
)

// Derived timing relationships for internal use.
const (
	// shutdownPollCycles is how many spin-wait cycles fit in the shutdown window
	shutdownPollCycles = ShutdownTimeout / SpinWaitInterval

	// debounceSettleMultiplier is how many debounce periods tests wait for a reload
	debounceSettleMultiplier = 3
)
