package source

import (
	"runtime"

	"codeberg.org/mutker/cpuhistory/internal/errors"
)

// Platforms gopsutil reports total CPU times on.
var cpuPlatforms = map[string]bool{
	"linux":   true,
	"darwin":  true,
	"windows": true,
	"freebsd": true,
	"openbsd": true,
	"solaris": true,
	"aix":     true,
}

// Detect resolves a configured source name to a Source.
func Detect(name string) (Source, error) {
	return detect(name, runtime.GOOS)
}

func detect(name, goos string) (Source, error) {
	switch name {
	case NameAuto, "":
		if cpuPlatforms[goos] {
			return NewCPU(), nil
		}
		return Unsupported(goos), nil
	case NameCPU:
		return NewCPU(), nil
	case NameNone:
		return Unsupported(goos), nil
	default:
		return nil, errors.New().WithData(errors.ErrInvalidConfig, "unknown source "+name)
	}
}
