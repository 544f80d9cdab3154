package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestAppError_New_Success(t *testing.T) {
	err := New(ErrCodeNotFound, "not found", http.StatusNotFound)
	if err.Code != ErrCodeNotFound {
		t.Errorf("expected code %s, got %s", ErrCodeNotFound, err.Code)
	}
	if err.Message != "not found" {
		t.Errorf("expected message 'not found', got %q", err.Message)
	}
	if err.HTTPStatus != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, err.HTTPStatus)
	}
	if err.Retryable {
		t.Error("NOT_FOUND should not be retryable")
	}
}

func TestAppError_New_Retryable(t *testing.T) {
	err := New(ErrCodeTimeout, "timed out", http.StatusGatewayTimeout)
	if !err.Retryable {
		t.Error("TIMEOUT should be retryable")
	}
}

func TestAppError_NotFound_Success(t *testing.T) {
	err := NotFound("item", "99")
	if err.Code != ErrCodeNotFound {
		t.Errorf("expected NOT_FOUND, got %s", err.Code)
	}
	if err.Details["resource"] != "item" {
		t.Errorf("expected resource=item, got %v", err.Details["resource"])
	}
	if err.Details["id"] != "99" {
		t.Errorf("expected id=99, got %v", err.Details["id"])
	}
	if !strings.Contains(err.Message, `"99"`) {
		t.Errorf("expected message to name the id, got %q", err.Message)
	}
}

func TestAppError_NotFound_EmptyID(t *testing.T) {
	err := NotFound("item", "")
	if _, ok := err.Details["id"]; ok {
		t.Error("expected no 'id' key in details when id is empty")
	}
}

func TestAppError_MetadataErrors_NameType(t *testing.T) {
	tests := []struct {
		name    string
		err     *AppError
		code    ErrorCode
		message string
	}{
		{"unknown", UnknownRelatedType("NotFoundClass"), ErrCodeUnknownRelatedType, "NotFoundClass does not exist"},
		{"uninstantiable", UninstantiableRelatedType("ItemInterface"), ErrCodeUninstantiableRelatedType, "ItemInterface is not instantiable"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.err.Code != tc.code {
				t.Errorf("expected code %s, got %s", tc.code, tc.err.Code)
			}
			if !strings.Contains(tc.err.Message, tc.message) {
				t.Errorf("expected message containing %q, got %q", tc.message, tc.err.Message)
			}
			if tc.err.Details["type"] == nil {
				t.Error("expected type in details")
			}
		})
	}
}

func TestAppError_WithCause_Chain(t *testing.T) {
	cause := fmt.Errorf("root cause")
	err := NotFound("item", "1").WithCause(cause)
	if err.Cause != cause {
		t.Error("expected cause to be set via WithCause")
	}
	if !strings.Contains(err.Error(), "root cause") {
		t.Errorf("Error() should contain cause, got %q", err.Error())
	}
}

func TestAppError_WithDetails_Merge(t *testing.T) {
	err := NotFound("item", "1").WithDetails(map[string]any{"extra": "info"})
	if err.Details["extra"] != "info" {
		t.Errorf("expected extra=info in details")
	}
	if err.Details["resource"] != "item" {
		t.Error("expected original details to be preserved")
	}
}

func TestAppError_WithDetail_NilMap(t *testing.T) {
	err := &AppError{}
	err.WithDetail("key", "value")
	if err.Details["key"] != "value" {
		t.Errorf("expected key=value, got %v", err.Details["key"])
	}
}

func TestAppError_Unwrap_Success(t *testing.T) {
	cause := fmt.Errorf("underlying")
	err := Internal(cause)
	if err.Unwrap() != cause {
		t.Error("Unwrap should return the cause")
	}
	if NotFound("x", "").Unwrap() != nil {
		t.Error("Unwrap should return nil when no cause")
	}
}

func TestAppError_Constructors_Table(t *testing.T) {
	tests := []struct {
		name      string
		err       *AppError
		code      ErrorCode
		status    int
		retryable bool
	}{
		{"AlreadyExists", AlreadyExists("item"), ErrCodeAlreadyExists, http.StatusConflict, false},
		{"MissingField", MissingField("name"), ErrCodeMissingField, http.StatusBadRequest, false},
		{"InvalidInput", InvalidInput("oitem", "unknown relation"), ErrCodeInvalidInput, http.StatusBadRequest, false},
		{"Validation", Validation("bad input"), ErrCodeInvalidInput, http.StatusBadRequest, false},
		{"UnsupportedOperator", UnsupportedOperator("=~"), ErrCodeUnsupportedOperator, http.StatusBadRequest, false},
		{"EmptyPath", EmptyPath(), ErrCodeEmptyPath, http.StatusInternalServerError, false},
		{"Timeout", Timeout("find"), ErrCodeTimeout, http.StatusGatewayTimeout, true},
		{"DatabaseError", DatabaseError(nil), ErrCodeDatabaseError, http.StatusInternalServerError, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.err.Code != tc.code {
				t.Errorf("expected code %s, got %s", tc.code, tc.err.Code)
			}
			if tc.err.HTTPStatus != tc.status {
				t.Errorf("expected status %d, got %d", tc.status, tc.err.HTTPStatus)
			}
			if tc.err.Retryable != tc.retryable {
				t.Errorf("expected retryable=%v, got %v", tc.retryable, tc.err.Retryable)
			}
		})
	}
}

func TestHasCode(t *testing.T) {
	wrapped := fmt.Errorf("resolve: %w", UnknownRelatedType("Ghost"))
	if !HasCode(wrapped, ErrCodeUnknownRelatedType) {
		t.Error("expected HasCode to see through wrapping")
	}
	if HasCode(wrapped, ErrCodeNotFound) {
		t.Error("expected HasCode to reject a different code")
	}
	if HasCode(fmt.Errorf("plain"), ErrCodeInternal) {
		t.Error("expected HasCode to reject a non-AppError")
	}
}

func TestAppError_AsAppError_Success(t *testing.T) {
	wrapped := fmt.Errorf("wrap: %w", Internal(nil))

	got, ok := AsAppError(wrapped)
	if !ok {
		t.Fatal("expected AsAppError to succeed for wrapped AppError")
	}
	if got.Code != ErrCodeInternal {
		t.Errorf("expected INTERNAL_ERROR, got %s", got.Code)
	}

	if _, ok := AsAppError(fmt.Errorf("not an app error")); ok {
		t.Error("expected AsAppError to return false for non-AppError")
	}
}

func TestWrap(t *testing.T) {
	if Wrap(nil) != nil {
		t.Error("Wrap(nil) should return nil")
	}

	orig := NotFound("item", "1")
	if Wrap(orig) != orig {
		t.Error("Wrap should return the original AppError unchanged")
	}
	if got := Wrap(fmt.Errorf("outer: %w", orig)); got.Code != ErrCodeNotFound {
		t.Errorf("expected NOT_FOUND, got %s", got.Code)
	}

	plain := fmt.Errorf("something broke")
	got := Wrap(plain)
	if got.Code != ErrCodeInternal {
		t.Errorf("expected INTERNAL_ERROR, got %s", got.Code)
	}
	if got.Cause != plain {
		t.Error("expected cause to be the original error")
	}
}

func TestAppError_ImplementsErrorInterface(t *testing.T) {
	var err error = NotFound("item", "1")
	var appErr *AppError
	if !stderrors.As(err, &appErr) {
		t.Error("stderrors.As should work with AppError")
	}
}
