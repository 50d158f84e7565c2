package errors

// Common error codes
const (
	// System errors
	ErrInternal        ErrorCode = "internal_error"
	ErrInvalidArgument ErrorCode = "invalid_argument"
	ErrNotImplemented  ErrorCode = "not_implemented"
	ErrUnavailable     ErrorCode = "service_unavailable"

	// Configuration errors
	ErrInvalidConfig   ErrorCode = "invalid_configuration"
	ErrReadConfig      ErrorCode = "read_config_failed"
	ErrBindFlags       ErrorCode = "bind_flags_failed"
	ErrInvalidInterval ErrorCode = "invalid_interval"
	ErrInvalidCapacity ErrorCode = "invalid_capacity"

	// Logging errors
	ErrInvalidLogLevel ErrorCode = "invalid_log_level"

	// Lifecycle errors
	ErrUseAfterDispose ErrorCode = "use_after_dispose"
	ErrAlreadyRunning  ErrorCode = "already_running"
	ErrInitFailed      ErrorCode = "initialization_failed"
	ErrShutdownFailed  ErrorCode = "shutdown_failed"

	// Metric source errors
	ErrAcquisitionFailed ErrorCode = "acquisition_failed"
	ErrSampleFailed      ErrorCode = "sample_failed"
	ErrReleaseFailed     ErrorCode = "release_failed"

	// Operation errors
	ErrOperationFailed ErrorCode = "operation_failed"
	ErrTimeout         ErrorCode = "operation_timeout"

	// Journal errors
	ErrInitJournal  ErrorCode = "init_journal_failed"
	ErrRecordSample ErrorCode = "record_sample_failed"
	ErrCloseJournal ErrorCode = "close_journal_failed"
)

// Common error messages
var errorMessages = map[ErrorCode]string{
	ErrInternal:          "Internal error occurred",
	ErrInvalidArgument:   "Invalid argument provided",
	ErrNotImplemented:    "Operation not implemented",
	ErrUnavailable:       "Service unavailable",
	ErrInvalidConfig:     "Invalid configuration",
	ErrReadConfig:        "Failed to read configuration",
	ErrBindFlags:         "Failed to bind flags",
	ErrInvalidInterval:   "Invalid interval value",
	ErrInvalidCapacity:   "Invalid history capacity",
	ErrInvalidLogLevel:   "Invalid log level",
	ErrUseAfterDispose:   "Sampler has been disposed",
	ErrAlreadyRunning:    "Another instance is already running",
	ErrInitFailed:        "Initialization failed",
	ErrShutdownFailed:    "Shutdown failed",
	ErrAcquisitionFailed: "Failed to acquire metric source",
	ErrSampleFailed:      "Failed to sample metric source",
	ErrReleaseFailed:     "Failed to release metric source",
	ErrOperationFailed:   "Operation failed",
	ErrTimeout:           "Operation timed out",
	ErrInitJournal:       "Failed to initialize sample journal",
	ErrRecordSample:      "Failed to record sample",
	ErrCloseJournal:      "Failed to close sample journal",
}

// GetErrorMessage returns the message for a given error code
func GetErrorMessage(code ErrorCode) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}

	return string(code)
}
