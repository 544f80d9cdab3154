package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Availability errors (retryable)
const (
	// ErrCodeConnectionFailed indicates a failed connection to the database.
	ErrCodeConnectionFailed ErrorCode = "CONNECTION_FAILED"
	// ErrCodeTimeout indicates the operation timed out.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
)

// Resource errors
const (
	// ErrCodeNotFound indicates the requested record was not found.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeAlreadyExists indicates the record already exists.
	ErrCodeAlreadyExists ErrorCode = "ALREADY_EXISTS"
)

// Input errors
const (
	// ErrCodeInvalidInput indicates the input failed validation.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeMissingField indicates a required attribute is missing or empty.
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"
	// ErrCodeUnsupportedOperator indicates a filter operator outside the accepted set.
	ErrCodeUnsupportedOperator ErrorCode = "UNSUPPORTED_OPERATOR"
)

// Metadata configuration errors
const (
	// ErrCodeUnknownRelatedType indicates a related-entity name that is not registered.
	ErrCodeUnknownRelatedType ErrorCode = "UNKNOWN_RELATED_TYPE"
	// ErrCodeUninstantiableRelatedType indicates a registered name that cannot produce an entity.
	ErrCodeUninstantiableRelatedType ErrorCode = "UNINSTANTIABLE_RELATED_TYPE"
)

// Internal errors
const (
	// ErrCodeInternal indicates an unexpected internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
	// ErrCodeDatabaseError indicates a database error.
	ErrCodeDatabaseError ErrorCode = "DATABASE_ERROR"
	// ErrCodeEmptyPath indicates an include path was consumed past its end.
	ErrCodeEmptyPath ErrorCode = "EMPTY_PATH"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeConnectionFailed: true,
	ErrCodeTimeout:          true,
	ErrCodeDatabaseError:    true,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
