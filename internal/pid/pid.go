package pid

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"codeberg.org/mutker/cpuhistory/internal/errors"
)

const (
	pidFile = "cpuhistory.pid"
)

// dir holds the PID file; tests point it elsewhere.
var dir = os.TempDir()

func path() string {
	return filepath.Join(dir, pidFile)
}

// Write writes the current process ID to a PID file. It fails with
// already_running when the recorded process is still alive.
func Write() error {
	errFactory := errors.New()
	self := os.Getpid()

	if data, err := os.ReadFile(path()); err == nil {
		if other, err := strconv.Atoi(strings.TrimSpace(string(data))); err == nil && other != self && alive(other) {
			return errFactory.WithData(errors.ErrAlreadyRunning, other)
		}
	} else if !os.IsNotExist(err) {
		return errFactory.Wrap(errors.ErrInternal, err)
	}

	if err := os.WriteFile(path(), []byte(strconv.Itoa(self)), 0o600); err != nil {
		return errFactory.Wrap(errors.ErrInternal, err)
	}

	return nil
}

// Remove removes the PID file.
func Remove() error {
	errFactory := errors.New()

	if err := os.Remove(path()); err != nil && !os.IsNotExist(err) {
		return errFactory.Wrap(errors.ErrInternal, err)
	}

	return nil
}

func alive(pid int) bool {
	if pid <= 0 {
		return false
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}

	return process.Signal(syscall.Signal(0)) == nil
}
