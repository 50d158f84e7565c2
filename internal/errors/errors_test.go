package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"codeberg.org/mutker/cpuhistory/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactoryNewUsesDefaultMessage(t *testing.T) {
	err := errors.New().New(errors.ErrUseAfterDispose)

	assert.Equal(t, errors.ErrUseAfterDispose, err.Code())
	assert.Equal(t, "Sampler has been disposed", err.Error())
	assert.Nil(t, err.Unwrap())
}

func TestFactoryWrapKeepsCause(t *testing.T) {
	cause := stderrors.New("permission denied")
	err := errors.New().Wrap(errors.ErrAcquisitionFailed, cause)

	assert.Equal(t, "Failed to acquire metric source: permission denied", err.Error())
	assert.True(t, errors.Is(err, cause))
}

func TestWithDataFormatsPayload(t *testing.T) {
	err := errors.New().WithData(errors.ErrInvalidCapacity, 0)

	assert.Equal(t, "Invalid history capacity: 0", err.Error())
	assert.Equal(t, 0, err.GetData())
}

func TestWithMessageOverridesText(t *testing.T) {
	err := errors.New().New(errors.ErrInvalidConfig).WithMessage("capacity must be positive")

	assert.Equal(t, errors.ErrInvalidConfig, err.Code())
	assert.Equal(t, "capacity must be positive", err.Error())
}

func TestUnknownCodeFallsBackToCode(t *testing.T) {
	assert.Equal(t, "custom_code", errors.GetErrorMessage(errors.ErrorCode("custom_code")))
}

func TestHasCodeWalksChain(t *testing.T) {
	inner := errors.New().New(errors.ErrInvalidInterval)
	outer := errors.New().Wrap(errors.ErrInvalidConfig, inner)
	wrapped := fmt.Errorf("load: %w", outer)

	assert.True(t, errors.HasCode(wrapped, errors.ErrInvalidConfig))
	assert.True(t, errors.HasCode(wrapped, errors.ErrInvalidInterval))
	assert.False(t, errors.HasCode(wrapped, errors.ErrUseAfterDispose))
	assert.False(t, errors.HasCode(nil, errors.ErrInvalidConfig))
}

func TestGetCode(t *testing.T) {
	code, ok := errors.GetCode(fmt.Errorf("start: %w", errors.New().New(errors.ErrUseAfterDispose)))
	require.True(t, ok)
	assert.Equal(t, errors.ErrUseAfterDispose, code)

	_, ok = errors.GetCode(stderrors.New("plain"))
	assert.False(t, ok)
}
