// Package history holds the fixed-capacity rolling store of CPU samples.
package history

import (
	"sync"

	"codeberg.org/mutker/cpuhistory/internal/errors"
)

// Sentinel is the value every slot holds before a real sample arrives.
const Sentinel = 0.0

// Buffer is a ring of exactly Capacity samples, oldest first. The backing
// array never grows; a push overwrites the oldest slot.
type Buffer struct {
	mu      sync.Mutex
	samples []float64
	head    int // index of the oldest sample
}

// New allocates a buffer of the given capacity filled with Sentinel.
func New(capacity int) (*Buffer, error) {
	if capacity <= 0 {
		return nil, errors.New().WithData(errors.ErrInvalidCapacity, capacity)
	}

	samples := make([]float64, capacity)
	for i := range samples {
		samples[i] = Sentinel
	}

	return &Buffer{samples: samples}, nil
}

// Capacity returns the fixed number of retained samples.
func (b *Buffer) Capacity() int {
	return len(b.samples)
}

// Push evicts the oldest sample and appends value as the newest.
func (b *Buffer) Push(value float64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.samples[b.head] = value
	b.head = (b.head + 1) % len(b.samples)
}

// Snapshot returns an independent copy of the buffer, oldest first.
func (b *Buffer) Snapshot() []float64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	result := make([]float64, len(b.samples))
	n := copy(result, b.samples[b.head:])
	copy(result[n:], b.samples[:b.head])

	return result
}

// Latest returns the newest sample.
func (b *Buffer) Latest() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.samples[(b.head+len(b.samples)-1)%len(b.samples)]
}
