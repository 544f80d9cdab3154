package database

import (
	"context"
	"fmt"
	"testing"

	"gorm.io/gorm"

	apperrors "github.com/kbukum/toolbox/errors"
)

func TestFromDatabase(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		code      apperrors.ErrorCode
		retryable bool
	}{
		{"not found", gorm.ErrRecordNotFound, apperrors.ErrCodeNotFound, false},
		{"wrapped not found", fmt.Errorf("find: %w", gorm.ErrRecordNotFound), apperrors.ErrCodeNotFound, false},
		{"duplicate translated", gorm.ErrDuplicatedKey, apperrors.ErrCodeAlreadyExists, false},
		{"duplicate raw sqlite", fmt.Errorf("UNIQUE constraint failed: items.name"), apperrors.ErrCodeAlreadyExists, false},
		{"invalid field", gorm.ErrInvalidField, apperrors.ErrCodeInvalidInput, false},
		{"connection", fmt.Errorf("dial tcp: connection refused"), apperrors.ErrCodeConnectionFailed, true},
		{"deadlock", fmt.Errorf("deadlock detected"), apperrors.ErrCodeDatabaseError, true},
		{"generic", fmt.Errorf("syntax error near FROM"), apperrors.ErrCodeDatabaseError, true},
		{"deadline", fmt.Errorf("query: %w", context.DeadlineExceeded), apperrors.ErrCodeTimeout, true},
		{"canceled", context.Canceled, apperrors.ErrCodeTimeout, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := FromDatabase(tc.err, "item")
			if got.Code != tc.code {
				t.Errorf("expected code %s, got %s", tc.code, got.Code)
			}
			if got.Retryable != tc.retryable {
				t.Errorf("expected retryable=%v, got %v", tc.retryable, got.Retryable)
			}
			if got.Cause == nil {
				t.Error("expected cause to be kept")
			}
		})
	}
}

func TestFromDatabase_Nil(t *testing.T) {
	if FromDatabase(nil, "item") != nil {
		t.Error("expected nil for nil error")
	}
}

func TestFromDatabase_PassesAppErrorThrough(t *testing.T) {
	orig := apperrors.NotFound("item", "7")
	if got := FromDatabase(fmt.Errorf("wrap: %w", orig), "other"); got != orig {
		t.Errorf("expected original AppError, got %v", got)
	}
}

func TestIsRetryableError(t *testing.T) {
	if IsRetryableError(nil) {
		t.Error("nil should not be retryable")
	}
	if !IsRetryableError(fmt.Errorf("database is locked")) {
		t.Error("sqlite lock should be retryable")
	}
	if IsRetryableError(fmt.Errorf("no such column: foo")) {
		t.Error("schema error should not be retryable")
	}
}
