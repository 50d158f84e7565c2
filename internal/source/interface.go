// Package source provides the raw CPU utilization readings consumed by the
// sampler. Platform differences stay behind Source; callers never branch on
// the operating system themselves.
package source

import "context"

// Source acquires a Handle that produces readings.
type Source interface {
	// Name identifies the source in logs and the journal.
	Name() string

	// Acquire prepares the underlying OS facility. A failure is not fatal to
	// callers; they fall back to sampling nothing.
	Acquire(ctx context.Context) (Handle, error)
}

// Handle is an acquired source. It is used by one goroutine at a time.
type Handle interface {
	// Sample returns the current utilization in percent. Values outside
	// [0, 100] and negative status codes are possible and left to the caller.
	Sample(ctx context.Context) (float64, error)

	// Release frees the OS facility. Release on a released handle is a no-op.
	Release() error
}

const (
	// NameAuto resolves the source by the running platform.
	NameAuto = "auto"
	// NameCPU forces the gopsutil CPU source.
	NameCPU = "cpu"
	// NameNone forces the unsupported source, producing a flat zero history.
	NameNone = "none"
)

// Unsupported-platform status codes a source may report instead of a reading.
const (
	StatusUnsupportedOS       = -1.0
	StatusUnsupportedPlatform = -2.0
)
