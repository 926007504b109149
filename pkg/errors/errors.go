// Package errors provides standardized error definitions for the BandHub system.
package errors

import (
	"fmt"
	"net/http"
)

// Error represents a structured application error.
type Error struct {
	Code       string      `json:"code"`
	Message    string      `json:"message"`
	HTTPStatus int         `json:"-"`
	IsRLSIssue bool        `json:"is_rls_issue,omitempty"`
	Details    interface{} `json:"details,omitempty"`
	Err        error       `json:"-"` // Wrapped error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	return e.Err
}

// WithDetails adds details to the error.
func (e *Error) WithDetails(details interface{}) *Error {
	clone := *e
	clone.Details = details
	return &clone
}

// WithError wraps another error.
func (e *Error) WithError(err error) *Error {
	clone := *e
	clone.Err = err
	return &clone
}

// WithMessage replaces the user-facing message.
func (e *Error) WithMessage(message string) *Error {
	clone := *e
	clone.Message = message
	return &clone
}

// New creates a new Error.
func New(code, message string, httpStatus int) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an existing error with error code and message.
func Wrap(err error, code, message string, httpStatus int) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// RLS flags an error as a row-level-security / permission problem so
// callers can render a "check your access" message instead of a generic
// failure.
func RLS(err *Error) *Error {
	clone := *err
	clone.IsRLSIssue = true
	return &clone
}

// Common error codes
const (
	// General errors
	ErrCodeInternal        = "INTERNAL_ERROR"
	ErrCodeInvalidRequest  = "INVALID_REQUEST"
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeConflict        = "CONFLICT"
	ErrCodeForbidden       = "FORBIDDEN"
	ErrCodeUnauthorized    = "UNAUTHORIZED"
	ErrCodeValidation      = "VALIDATION"
	ErrCodeException       = "EXCEPTION"
	ErrCodeTooManyRequests = "TOO_MANY_REQUESTS"

	// Band / membership errors
	ErrCodeBandNotFound  = "BAND_NOT_FOUND"
	ErrCodeNotBandMember = "NOT_BAND_MEMBER"

	// Setlist errors
	ErrCodeSetlistNotFound = "SETLIST_NOT_FOUND"
	ErrCodeSetlistMismatch = "SETLIST_MISMATCH"
	ErrCodeDuplicateSong   = "DUPLICATE_SONG"
	ErrCodeSongNotFound    = "SONG_NOT_FOUND"
	ErrCodePrecheckFailed  = "PRECHECK_FAILED"

	// Gig / rehearsal errors
	ErrCodeGigNotFound       = "GIG_NOT_FOUND"
	ErrCodeRehearsalNotFound = "REHEARSAL_NOT_FOUND"

	// Storage errors
	ErrCodeDatabaseError = "DATABASE_ERROR"
)

// Predefined errors
var (
	// General errors
	ErrInternal       = New(ErrCodeInternal, "Internal server error", http.StatusInternalServerError)
	ErrInvalidRequest = New(ErrCodeInvalidRequest, "Invalid request", http.StatusBadRequest)
	ErrNotFound       = New(ErrCodeNotFound, "Resource not found", http.StatusNotFound)
	ErrConflict       = New(ErrCodeConflict, "Resource conflict", http.StatusConflict)
	ErrForbidden      = New(ErrCodeForbidden, "Access forbidden", http.StatusForbidden)
	ErrUnauthorized   = New(ErrCodeUnauthorized, "Unauthorized", http.StatusUnauthorized)
	ErrValidation     = New(ErrCodeValidation, "Validation failed", http.StatusBadRequest)
	ErrException      = New(ErrCodeException, "Unexpected error", http.StatusInternalServerError)
)

var (
	// Band / membership errors
	ErrBandNotFound  = New(ErrCodeBandNotFound, "Band not found", http.StatusNotFound)
	ErrNotBandMember = New(ErrCodeNotBandMember, "Not a member of this band", http.StatusForbidden)
)

var (
	// Setlist errors
	ErrSetlistNotFound = New(ErrCodeSetlistNotFound, "Setlist not found", http.StatusNotFound)
	ErrSetlistMismatch = New(ErrCodeSetlistMismatch, "Song does not belong to this setlist", http.StatusForbidden)
	ErrDuplicateSong   = New(ErrCodeDuplicateSong, "Song is already in the destination setlist", http.StatusConflict)
	ErrSongNotFound    = New(ErrCodeSongNotFound, "Song not found", http.StatusNotFound)
	ErrPrecheckFailed  = RLS(New(ErrCodePrecheckFailed, "Ownership verification read failed", http.StatusInternalServerError))
)

var (
	// Gig / rehearsal errors
	ErrGigNotFound       = New(ErrCodeGigNotFound, "Gig not found", http.StatusNotFound)
	ErrRehearsalNotFound = New(ErrCodeRehearsalNotFound, "Rehearsal not found", http.StatusNotFound)
)

var (
	// Storage errors
	ErrDatabaseError = New(ErrCodeDatabaseError, "Database error", http.StatusInternalServerError)
)

// IsError checks if an error is a specific application error.
func IsError(err error, target *Error) bool {
	if err == nil {
		return false
	}
	appErr, ok := err.(*Error)
	if !ok {
		return false
	}
	return appErr.Code == target.Code
}

// GetHTTPStatus returns the HTTP status code for an error.
// If the error is not an *Error, returns 500.
func GetHTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	appErr, ok := err.(*Error)
	if !ok {
		return http.StatusInternalServerError
	}
	return appErr.HTTPStatus
}

// GetCode returns the error code for an error.
// If the error is not an *Error, returns EXCEPTION.
func GetCode(err error) string {
	if err == nil {
		return ""
	}
	appErr, ok := err.(*Error)
	if !ok {
		return ErrCodeException
	}
	return appErr.Code
}
