package source

import (
	"context"
	"sync"

	"codeberg.org/mutker/cpuhistory/internal/errors"
	"github.com/shirou/gopsutil/v3/cpu"
)

type percentFunc func(ctx context.Context) ([]float64, error)

// gopsutil keeps the previous CPU times for zero-interval calls in package
// state, so total utilization is measured since the previous call.
func totalPercent(ctx context.Context) ([]float64, error) {
	return cpu.PercentWithContext(ctx, 0, false)
}

type cpuSource struct {
	percent percentFunc
}

// NewCPU returns the cross-platform CPU utilization source.
func NewCPU() Source {
	return &cpuSource{percent: totalPercent}
}

func (*cpuSource) Name() string {
	return NameCPU
}

func (s *cpuSource) Acquire(ctx context.Context) (Handle, error) {
	errFactory := errors.New()

	// Prime the counter; the first delta is measured against boot time.
	if _, err := s.readTotal(ctx); err != nil {
		return nil, errFactory.Wrap(errors.ErrAcquisitionFailed, err)
	}

	return &cpuHandle{source: s}, nil
}

func (s *cpuSource) readTotal(ctx context.Context) (float64, error) {
	values, err := s.percent(ctx)
	if err != nil {
		return 0, err
	}
	if len(values) == 0 {
		return 0, errors.New().WithMessage(errors.ErrSampleFailed, "no CPU totals reported")
	}

	return values[0], nil
}

type cpuHandle struct {
	source   *cpuSource
	mu       sync.Mutex
	released bool
}

func (h *cpuHandle) Sample(ctx context.Context) (float64, error) {
	errFactory := errors.New()

	h.mu.Lock()
	released := h.released
	h.mu.Unlock()
	if released {
		return 0, errFactory.WithMessage(errors.ErrSampleFailed, "handle released")
	}

	value, err := h.source.readTotal(ctx)
	if err != nil {
		return 0, errFactory.Wrap(errors.ErrSampleFailed, err)
	}

	return value, nil
}

func (h *cpuHandle) Release() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.released = true

	return nil
}
