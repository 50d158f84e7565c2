//go:build !linux && !darwin && !freebsd && !netbsd && !openbsd

package logger

import "os"

// IsService checks if the application is running as a service
func IsService() bool {
	return os.Getenv("SERVICE_NAME") != "" || os.Getenv("INVOCATION_ID") != ""
}
