package sampler

import (
	"time"

	"codeberg.org/mutker/cpuhistory/internal/errors"
)

const (
	DefaultHistoryCapacity = 60
	DefaultUpdateInterval  = time.Second
)

// Config is fixed for the lifetime of one Service.
type Config struct {
	HistoryCapacity int
	UpdateInterval  time.Duration
}

// NewConfig builds a Config from a capacity and an interval in milliseconds.
func NewConfig(capacity, intervalMillis int) Config {
	return Config{
		HistoryCapacity: capacity,
		UpdateInterval:  time.Duration(intervalMillis) * time.Millisecond,
	}
}

// DefaultConfig keeps one minute of history at one sample per second.
func DefaultConfig() Config {
	return Config{
		HistoryCapacity: DefaultHistoryCapacity,
		UpdateInterval:  DefaultUpdateInterval,
	}
}

func (c Config) Validate() error {
	errFactory := errors.New()

	if c.HistoryCapacity <= 0 {
		return errFactory.Wrap(errors.ErrInvalidConfig,
			errFactory.WithData(errors.ErrInvalidCapacity, c.HistoryCapacity))
	}
	if c.UpdateInterval <= 0 {
		return errFactory.Wrap(errors.ErrInvalidConfig,
			errFactory.WithData(errors.ErrInvalidInterval, c.UpdateInterval))
	}

	return nil
}
