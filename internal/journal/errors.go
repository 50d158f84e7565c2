package journal

import "codeberg.org/mutker/cpuhistory/internal/errors"

const (
	// Configuration Errors
	ErrInvalidConfig = errors.ErrInvalidConfig
	ErrInvalidDBPath = errors.ErrorCode("journal_invalid_db_path")

	// Schema Errors
	ErrSchemaInitFailed       = errors.ErrorCode("journal_schema_init_failed")
	ErrSchemaValidationFailed = errors.ErrorCode("journal_schema_validation_failed")
	ErrSchemaMigrationFailed  = errors.ErrorCode("journal_schema_migration_failed")
	ErrTransactionFailed      = errors.ErrorCode("journal_transaction_failed")

	// Storage Errors
	ErrStorageAccess = errors.ErrorCode("journal_storage_access_failed")
	ErrStorageInit   = errors.ErrInitJournal
	ErrStorageClose  = errors.ErrCloseJournal
	ErrClosed        = errors.ErrorCode("journal_closed")

	// Collection Errors
	ErrRecordFailed  = errors.ErrRecordSample
	ErrInvalidSample = errors.ErrorCode("journal_invalid_sample")

	// Operation Errors
	ErrOperationTimeout = errors.ErrTimeout
)
