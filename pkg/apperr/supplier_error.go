// Package apperr defines the typed error taxonomy of the supplier service
// and its mapping onto HTTP status codes.
package apperr

import (
	"errors"
	"fmt"
	"net/http"

	"supplier_server/core/domain"
)

// Error codes
const (
	CodeValidationFailed = "VALIDATION_FAILED"
	CodeEmailExists      = "EMAIL_EXISTS"
	CodeUsernameExists   = "USERNAME_EXISTS"
	CodeInvalidAccount   = "INVALID_ACCOUNT"
	CodeInvalidVersion   = "INVALID_VERSION"
	CodeMissingVersion   = "MISSING_VERSION"
	CodeBadRequest       = "BAD_REQUEST"
	CodeUnsupportedOp    = "UNSUPPORTED_OPERATION"
	CodeUnsupportedPath  = "UNSUPPORTED_PATH"
	CodeNotFound         = "NOT_FOUND"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeForbidden        = "FORBIDDEN"
	CodeTimeout          = "TIMEOUT"
	CodeInternalError    = "INTERNAL_ERROR"
)

// AppError is a structured application error carrying the HTTP status the
// transport layer should answer with.
type AppError struct {
	Code       string             `json:"code"`
	Message    string             `json:"message"`
	Status     int                `json:"-"`
	Violations []domain.Violation `json:"violations,omitempty"`
	Err        error              `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Err }

// WithError attaches a cause.
func (e *AppError) WithError(err error) *AppError {
	e.Err = err
	return e
}

// New creates an AppError with an explicit code, message and status.
func New(code, message string, status int) *AppError {
	return &AppError{Code: code, Message: message, Status: status}
}

// EmailExists signals that the (caller-supplied, non-lowercased) email is
// already taken by an existing supplier.
func EmailExists(email string) *AppError {
	return &AppError{
		Code:    CodeEmailExists,
		Message: fmt.Sprintf("Die Emailadresse %s existiert bereits", email),
		Status:  http.StatusBadRequest,
	}
}

// UsernameExists signals that the username is already taken in the identity store.
func UsernameExists(username string) *AppError {
	return &AppError{
		Code:    CodeUsernameExists,
		Message: fmt.Sprintf("Der Username %s existiert bereits", username),
		Status:  http.StatusBadRequest,
	}
}

// InvalidAccount signals a create request without a usable account payload.
func InvalidAccount() *AppError {
	return &AppError{
		Code:    CodeInvalidAccount,
		Message: "Ungueltiger Account",
		Status:  http.StatusBadRequest,
	}
}

// InvalidVersion signals an unparseable or stale version token.
func InvalidVersion(version string) *AppError {
	return &AppError{
		Code:    CodeInvalidVersion,
		Message: fmt.Sprintf("Falsche Versionsnummer %s", version),
		Status:  http.StatusPreconditionFailed,
	}
}

// MissingVersion signals a write request without an If-Match header.
func MissingVersion() *AppError {
	return &AppError{
		Code:    CodeMissingVersion,
		Message: "Versionsnummer fehlt",
		Status:  http.StatusPreconditionFailed,
	}
}

// Validation wraps field-level constraint violations.
func Validation(violations []domain.Violation) *AppError {
	return &AppError{
		Code:       CodeValidationFailed,
		Message:    "Constraints verletzt",
		Status:     http.StatusBadRequest,
		Violations: violations,
	}
}

// BadRequest signals a malformed request body; message is the decoder message.
func BadRequest(message string) *AppError {
	return &AppError{Code: CodeBadRequest, Message: message, Status: http.StatusBadRequest}
}

// UnsupportedOperation signals an unknown patch op.
func UnsupportedOperation(op string) *AppError {
	return &AppError{
		Code:    CodeUnsupportedOp,
		Message: fmt.Sprintf("Unbekannte Patch-Operation %s", op),
		Status:  http.StatusBadRequest,
	}
}

// UnsupportedPath signals an unknown patch path.
func UnsupportedPath(path string) *AppError {
	return &AppError{
		Code:    CodeUnsupportedPath,
		Message: fmt.Sprintf("Unbekannter Patch-Pfad %s", path),
		Status:  http.StatusBadRequest,
	}
}

// NotFound signals a lookup miss that must surface as 404.
func NotFound(resource string) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Status:  http.StatusNotFound,
	}
}

// Unauthorized signals missing or wrong credentials.
func Unauthorized() *AppError {
	return &AppError{Code: CodeUnauthorized, Message: "unauthorized", Status: http.StatusUnauthorized}
}

// Forbidden signals missing role privileges.
func Forbidden() *AppError {
	return &AppError{Code: CodeForbidden, Message: "forbidden", Status: http.StatusForbidden}
}

// Timeout signals that a storage call exceeded its bounded wait. Surfaced as
// a server error, never as "not found".
func Timeout(operation string) *AppError {
	return &AppError{
		Code:    CodeTimeout,
		Message: fmt.Sprintf("operation timed out: %s", operation),
		Status:  http.StatusInternalServerError,
	}
}

// Internal wraps an unexpected failure.
func Internal(err error) *AppError {
	return &AppError{
		Code:    CodeInternalError,
		Message: "internal server error",
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// Is reports whether err is an AppError with the given code.
func Is(err error, code string) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// As extracts an AppError, wrapping unknown errors as internal.
func As(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}

// Status returns the HTTP status for err.
func Status(err error) int {
	return As(err).Status
}
