// Package journal appends sanitized samples to an optional SQLite journal for
// offline inspection. The sampler never reads the journal back.
package journal

import (
	"context"
	"time"
)

// Recorder defines the core domain interface
type Recorder interface {
	Record(ctx context.Context, sample Sample) error
	Close() error
}

// Repository defines the interface for sample storage
type Repository interface {
	Record(sample Sample) error
	Recent(ctx context.Context, limit int) ([]Sample, error)
	Close() error
}

// Sample is one journaled reading.
type Sample struct {
	Timestamp time.Time
	Source    string
	Value     float64
	// Degraded marks fallback values written while no source handle was held
	// or the read failed.
	Degraded bool
}
