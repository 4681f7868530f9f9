// Package errors provides the standardized error taxonomy used by the session core and the Parking Service client.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

// Validation errors are raised client-side before any network call.
const (
	ErrCodeValidationFailed       ErrorCode = "VALIDATION_FAILED"
	ErrCodeNotAuthenticated       ErrorCode = "NOT_AUTHENTICATED"
	ErrCodeSessionAlreadyActive   ErrorCode = "SESSION_ALREADY_ACTIVE"
	ErrCodeNoActiveSession        ErrorCode = "NO_ACTIVE_SESSION"
	ErrCodeRequestInFlight        ErrorCode = "REQUEST_IN_FLIGHT"
	ErrCodeMissingBookingParams   ErrorCode = "MISSING_BOOKING_PARAMS"
	ErrCodeInvalidHoldKind        ErrorCode = "INVALID_HOLD_KIND"
	ErrCodeUnauthorizedNavigation ErrorCode = "UNAUTHORIZED_NAVIGATION"
)

// Remote errors come from the Parking Service or the transport underneath it.
const (
	ErrCodeBookingFailed      ErrorCode = "BOOKING_FAILED"
	ErrCodeUnbookFailed       ErrorCode = "UNBOOK_FAILED"
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	ErrCodeServiceTimeout     ErrorCode = "SERVICE_TIMEOUT"
	ErrCodeRemoteError        ErrorCode = "REMOTE_ERROR"
	ErrCodeInvalidResponse    ErrorCode = "INVALID_RESPONSE"
)

// Infrastructure errors never reach the user; they are logged and the call falls back.
const (
	ErrCodeCacheFailed      ErrorCode = "CACHE_FAILED"
	ErrCodeStreamFailed     ErrorCode = "STREAM_FAILED"
	ErrCodeMalformedMessage ErrorCode = "MALFORMED_MESSAGE"
)

// StandardError represents a structured application error.
// Message is always safe to show to the user.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// WithMetadata attaches a key/value pair and returns the same error.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// ==========================
// 2. Error Constructors
// ==========================

// NewValidationError creates a non-retryable client-side validation error.
func NewValidationError(message, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   message,
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotAuthenticatedError is returned when a session operation is attempted without a logged-in user.
func NewNotAuthenticatedError() *StandardError {
	return &StandardError{
		Code:      ErrCodeNotAuthenticated,
		Message:   "Please log in first.",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSessionAlreadyActiveError refuses a second concurrent parking session.
func NewSessionAlreadyActiveError(activeSpot int64) *StandardError {
	return &StandardError{
		Code:      ErrCodeSessionAlreadyActive,
		Message:   "You already have an active parking session.",
		Details:   fmt.Sprintf("activeParkingId: %d", activeSpot),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewNoActiveSessionError is returned when start/stop is requested with nothing booked.
func NewNoActiveSessionError() *StandardError {
	return &StandardError{
		Code:      ErrCodeNoActiveSession,
		Message:   "There is no booked parking spot to start.",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewRequestInFlightError refuses a second request while one is pending.
func NewRequestInFlightError(operation string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRequestInFlight,
		Message:   "Please wait, your previous request is still being processed.",
		Details:   fmt.Sprintf("pending: %s", operation),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewMissingBookingParamsError is returned for booking parameters without a spot id.
func NewMissingBookingParamsError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeMissingBookingParams,
		Message:   "Booking details are missing. Please choose a spot again.",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidHoldKindError is returned for an unknown arrival option.
func NewInvalidHoldKindError(value string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidHoldKind,
		Message:   "Unknown arrival time option.",
		Details:   fmt.Sprintf("holdKind: %q", value),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewUnauthorizedNavigationError describes a direct navigation to the timer screen without a session.
func NewUnauthorizedNavigationError() *StandardError {
	return &StandardError{
		Code:      ErrCodeUnauthorizedNavigation,
		Message:   "Choose a parking spot first to start a parking session.",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewBookingFailedError creates a retryable booking error.
func NewBookingFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeBookingFailed,
		Message:   "Couldn't book parking",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewUnbookFailedError creates a retryable unbook error.
func NewUnbookFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnbookFailed,
		Message:   "Couldn't unbook parking",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewServiceUnavailableError wraps a transport failure.
func NewServiceUnavailableError(message string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeServiceUnavailable,
		Message:   message,
		Details:   errDetails(err),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewServiceTimeoutError wraps a request that ran past its deadline.
func NewServiceTimeoutError(message string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeServiceTimeout,
		Message:   message,
		Details:   errDetails(err),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewRemoteError carries an explicit error reported by the server.
func NewRemoteError(message, details string, status int) *StandardError {
	e := &StandardError{
		Code:      ErrCodeRemoteError,
		Message:   message,
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
	if status != 0 {
		e.WithMetadata("status", status)
	}
	return e
}

// NewInvalidResponseError is returned when a response body cannot be decoded.
func NewInvalidResponseError(message string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidResponse,
		Message:   message,
		Details:   errDetails(err),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewCacheFailedError wraps a cache read/write failure.
func NewCacheFailedError(operation string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCacheFailed,
		Message:   "Cache operation failed",
		Details:   fmt.Sprintf("operation: %s, error: %s", operation, errDetails(err)),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewStreamFailedError wraps a live feed connection failure.
func NewStreamFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStreamFailed,
		Message:   "Live stream is unavailable",
		Details:   errDetails(err),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewMalformedMessageError reports a live feed message that could not be decoded.
func NewMalformedMessageError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeMalformedMessage,
		Message:   "Received a malformed message",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func errDetails(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// ==========================
// 3. Utility Functions
// ==========================

// AsStandard normalizes any error into a StandardError. Unknown errors become REMOTE_ERROR
// with the given fallback message so callers always have something user-readable.
func AsStandard(err error, fallbackMessage string) *StandardError {
	if err == nil {
		return nil
	}
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return &StandardError{
		Code:      ErrCodeRemoteError,
		Message:   fallbackMessage,
		Details:   errDetails(err),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// HasCode reports whether err is a StandardError carrying code.
func HasCode(err error, code ErrorCode) bool {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr.Code == code
	}
	return false
}

// IsRetryableErrorCode checks if an error code is retryable by the user.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetErrorCategory(code) == "remote"
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	switch code {
	case ErrCodeUnauthorizedNavigation:
		return "navigation"
	case ErrCodeBookingFailed, ErrCodeUnbookFailed, ErrCodeServiceUnavailable,
		ErrCodeServiceTimeout, ErrCodeRemoteError, ErrCodeInvalidResponse:
		return "remote"
	case ErrCodeCacheFailed, ErrCodeStreamFailed, ErrCodeMalformedMessage:
		return "infrastructure"
	}
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "INVALID") || strings.Contains(codeStr, "VALIDATION") ||
		strings.Contains(codeStr, "SESSION") || strings.Contains(codeStr, "AUTHENTICATED") ||
		strings.Contains(codeStr, "MISSING") || strings.Contains(codeStr, "IN_FLIGHT"):
		return "validation"
	default:
		return "other"
	}
}
