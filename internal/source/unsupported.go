package source

import (
	"context"

	"codeberg.org/mutker/cpuhistory/internal/errors"
)

type unsupportedSource struct {
	goos string
}

// Unsupported returns a source whose acquisition always fails. Samplers using
// it record the fallback value on every tick.
func Unsupported(goos string) Source {
	return &unsupportedSource{goos: goos}
}

func (*unsupportedSource) Name() string {
	return NameNone
}

func (s *unsupportedSource) Acquire(_ context.Context) (Handle, error) {
	return nil, errors.New().WithData(errors.ErrAcquisitionFailed, "unsupported platform "+s.goos)
}
