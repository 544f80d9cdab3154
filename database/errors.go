package database

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"gorm.io/gorm"

	apperrors "github.com/kbukum/toolbox/errors"
)

var connectionPatterns = []string{
	"connection refused",
	"connection reset",
	"broken pipe",
	"i/o timeout",
	"no route to host",
	"network is unreachable",
	"connection closed",
	"driver: bad connection",
	"database is closed",
}

var retryablePatterns = []string{
	"deadlock",
	"lock timeout",
	"database is locked",
	"too many connections",
}

var duplicatePatterns = []string{
	"unique constraint failed",
	"duplicate key value",
}

func containsAny(err error, patterns []string) bool {
	if err == nil {
		return false
	}
	s := strings.ToLower(err.Error())
	for _, p := range patterns {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}

// IsConnectionError checks if a database error is a connection error
// that might be resolved by retrying.
func IsConnectionError(err error) bool {
	return containsAny(err, connectionPatterns)
}

// IsRetryableError determines if a database error should trigger a retry.
func IsRetryableError(err error) bool {
	return IsConnectionError(err) || containsAny(err, retryablePatterns)
}

// IsNotFoundError checks if the error is a GORM record-not-found error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsDuplicateError checks for a unique-key violation, translated or raw.
func IsDuplicateError(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) || containsAny(err, duplicatePatterns)
}

// FromDatabase converts a database error to an AppError for resource.
// AppErrors pass through unchanged.
func FromDatabase(err error, resource string) *apperrors.AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := apperrors.AsAppError(err); ok {
		return appErr
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return apperrors.Timeout("database").WithCause(err)
	case IsNotFoundError(err):
		return apperrors.NotFound(resource, "").WithCause(err)
	case IsDuplicateError(err):
		return apperrors.AlreadyExists(resource).WithCause(err)
	case errors.Is(err, gorm.ErrInvalidField), errors.Is(err, gorm.ErrInvalidData):
		return apperrors.InvalidInput("", err.Error()).WithCause(err)
	case IsConnectionError(err):
		return (&apperrors.AppError{
			Code:       apperrors.ErrCodeConnectionFailed,
			Message:    "Database is temporarily unavailable. Please try again.",
			HTTPStatus: http.StatusServiceUnavailable,
			Retryable:  true,
		}).WithCause(err)
	case IsRetryableError(err):
		return (&apperrors.AppError{
			Code:       apperrors.ErrCodeDatabaseError,
			Message:    "Database operation failed. Please try again.",
			HTTPStatus: http.StatusServiceUnavailable,
			Retryable:  true,
		}).WithCause(err)
	}
	return apperrors.DatabaseError(err)
}
