package source

import (
	"context"
	"sync/atomic"

	"codeberg.org/mutker/cpuhistory/internal/errors"
)

// SampleFunc produces one raw reading.
type SampleFunc func(ctx context.Context) (float64, error)

type funcSource struct {
	name string
	fn   SampleFunc
}

// Func adapts fn into a Source that always acquires successfully.
func Func(name string, fn SampleFunc) Source {
	return &funcSource{name: name, fn: fn}
}

func (s *funcSource) Name() string {
	return s.name
}

func (s *funcSource) Acquire(_ context.Context) (Handle, error) {
	return &funcHandle{fn: s.fn}, nil
}

type funcHandle struct {
	fn       SampleFunc
	released atomic.Bool
}

func (h *funcHandle) Sample(ctx context.Context) (float64, error) {
	if h.released.Load() {
		return 0, errors.New().WithMessage(errors.ErrSampleFailed, "handle released")
	}

	return h.fn(ctx)
}

func (h *funcHandle) Release() error {
	h.released.Store(true)
	return nil
}
