package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// AppError is the unified error type returned by every toolbox package.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// HTTPStatus is the status a transport layer should map this error to.
	HTTPStatus int `json:"-"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Retryable:  IsRetryableCode(code),
	}
}

// --- Resource errors ---

// NotFound creates an AppError for a record that was not found.
func NotFound(resource, id string) *AppError {
	details := map[string]any{"resource": resource}
	if id != "" {
		details["id"] = id
	}
	message := fmt.Sprintf("The requested %s was not found.", resource)
	if id != "" {
		message = fmt.Sprintf("The requested %s %q was not found.", resource, id)
	}
	return &AppError{
		Code: ErrCodeNotFound, Message: message,
		HTTPStatus: http.StatusNotFound, Retryable: false, Details: details,
	}
}

// AlreadyExists creates an AppError for a record that already exists.
func AlreadyExists(resource string) *AppError {
	return &AppError{
		Code: ErrCodeAlreadyExists, Message: fmt.Sprintf("A %s with these details already exists.", resource),
		HTTPStatus: http.StatusConflict, Retryable: false,
		Details: map[string]any{"resource": resource},
	}
}

// --- Input errors ---

// InvalidInput creates an AppError for invalid input.
func InvalidInput(field, reason string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &AppError{
		Code: ErrCodeInvalidInput, Message: fmt.Sprintf("Invalid input: %s", reason),
		HTTPStatus: http.StatusBadRequest, Retryable: false, Details: details,
	}
}

// Validation creates an AppError for attribute values that fail domain rules.
func Validation(message string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidInput, Message: message,
		HTTPStatus: http.StatusBadRequest, Retryable: false,
	}
}

// MissingField creates an AppError for a required attribute that is missing or empty.
func MissingField(field string) *AppError {
	return &AppError{
		Code: ErrCodeMissingField, Message: fmt.Sprintf("Missing required field: %s", field),
		HTTPStatus: http.StatusBadRequest, Retryable: false,
		Details: map[string]any{"field": field},
	}
}

// UnsupportedOperator creates an AppError for a filter operator token outside the accepted set.
func UnsupportedOperator(op string) *AppError {
	return &AppError{
		Code: ErrCodeUnsupportedOperator, Message: fmt.Sprintf("Unsupported filter operator %q.", op),
		HTTPStatus: http.StatusBadRequest, Retryable: false,
		Details: map[string]any{"operator": op},
	}
}

// --- Metadata errors ---

// UnknownRelatedType creates an AppError for a related type name that does not resolve.
func UnknownRelatedType(name string) *AppError {
	return &AppError{
		Code: ErrCodeUnknownRelatedType, Message: fmt.Sprintf("The requested type: %s does not exist", name),
		HTTPStatus: http.StatusInternalServerError, Retryable: false,
		Details: map[string]any{"type": name},
	}
}

// UninstantiableRelatedType creates an AppError for a related type that cannot be
// instantiated as an entity descriptor.
func UninstantiableRelatedType(name string) *AppError {
	return &AppError{
		Code: ErrCodeUninstantiableRelatedType, Message: fmt.Sprintf("The requested type: %s is not instantiable", name),
		HTTPStatus: http.StatusInternalServerError, Retryable: false,
		Details: map[string]any{"type": name},
	}
}

// --- Internal errors ---

// EmptyPath creates an AppError for consuming an include path that has no elements left.
func EmptyPath() *AppError {
	return &AppError{
		Code: ErrCodeEmptyPath, Message: "Could not get next include: include path is empty",
		HTTPStatus: http.StatusInternalServerError, Retryable: false,
	}
}

// Timeout creates an AppError for an operation that exceeded its deadline.
func Timeout(operation string) *AppError {
	return &AppError{
		Code: ErrCodeTimeout, Message: "The operation took too long. Please try again.",
		HTTPStatus: http.StatusGatewayTimeout, Retryable: true,
		Details: map[string]any{"operation": operation},
	}
}

// Internal creates an AppError for an unexpected internal error.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An unexpected error occurred.",
		HTTPStatus: http.StatusInternalServerError, Retryable: false, Cause: cause,
	}
}

// DatabaseError creates an AppError for a database error.
func DatabaseError(cause error) *AppError {
	return &AppError{
		Code: ErrCodeDatabaseError, Message: "A database error occurred. Please try again.",
		HTTPStatus: http.StatusInternalServerError, Retryable: true, Cause: cause,
	}
}

// --- Inspection ---

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HasCode reports whether err, or any error it wraps, is an AppError with the given code.
func HasCode(err error, code ErrorCode) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}

// Wrap converts any error into an AppError. AppErrors anywhere in the chain are
// returned as-is; everything else becomes an internal error carrying the cause.
func Wrap(err error) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := AsAppError(err); ok {
		return appErr
	}
	return Internal(err)
}
