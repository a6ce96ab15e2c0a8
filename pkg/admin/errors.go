package admin

import (
	internalTypes "github.com/eshaffer321/ragadmin-go/internal/types"
)

var (
	// ErrNotAuthenticated is returned when a call needs a token and none is stored
	ErrNotAuthenticated = internalTypes.ErrNotAuthenticated

	// ErrUnauthorized is returned when the backend rejects the token
	ErrUnauthorized = internalTypes.ErrUnauthorized

	// ErrForbidden is returned on HTTP 403
	ErrForbidden = internalTypes.ErrForbidden

	// ErrLoginFailed is returned when login fails
	ErrLoginFailed = internalTypes.ErrLoginFailed

	// ErrLoginInProgress is returned when a login is already in flight
	ErrLoginInProgress = internalTypes.ErrLoginInProgress

	// ErrRateLimited is returned when rate limited
	ErrRateLimited = internalTypes.ErrRateLimited

	// ErrTimeout is returned on timeout
	ErrTimeout = internalTypes.ErrTimeout

	// ErrNotFound is returned when resource not found
	ErrNotFound = internalTypes.ErrNotFound

	// ErrServerError is returned for server errors
	ErrServerError = internalTypes.ErrServerError

	// ErrBackendFailure is returned when an envelope reports success=false
	ErrBackendFailure = internalTypes.ErrBackendFailure
)

// Error represents an API error returned with an HTTP response
type Error = internalTypes.Error

// NetworkError is a failure where no response was received
type NetworkError = internalTypes.NetworkError

// ValidationError represents a client-side input check failure
type ValidationError = internalTypes.ValidationError

// ValidationErrors represents multiple validation errors
type ValidationErrors = internalTypes.ValidationErrors

// IsNetworkError reports whether err is a transport failure with no response
func IsNetworkError(err error) bool {
	return internalTypes.IsNetworkError(err)
}

// IsValidationError reports whether err came from client-side input checks
func IsValidationError(err error) bool {
	return internalTypes.IsValidationError(err)
}

// IsAuthError checks if error is authentication related
func IsAuthError(err error) bool {
	return internalTypes.IsAuthError(err)
}

// IsRetryable checks if error is worth another attempt
func IsRetryable(err error) bool {
	return internalTypes.IsRetryable(err)
}

// UserMessage derives the text shown to an operator for a failed call
func UserMessage(err error) string {
	return internalTypes.UserMessage(err)
}

func newValidationError(field, message string, value interface{}) error {
	verrs := &ValidationErrors{}
	verrs.Add(field, message, value)
	return verrs
}
