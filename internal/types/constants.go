package types

import (
	"errors"
	"time"
)

const (
	// DefaultBaseURL is the default admin API base URL
	DefaultBaseURL = "http://localhost:8013"

	// DefaultTimeout is the default HTTP client timeout
	DefaultTimeout = 30 * time.Second

	// UserAgent is the user agent string
	UserAgent = "ragadmin-go/1.0.0"

	// NetworkErrorMessage is shown when the backend could not be reached at all
	NetworkErrorMessage = "Cannot connect to the server. Please check your connection or try again later."

	// GenericErrorMessage is used when a failure carries no usable text
	GenericErrorMessage = "An error occurred"

	// LoginFailedMessage is used when a failed login carries no server detail
	LoginFailedMessage = "Login failed. Please check your credentials."
)

// Common errors
var (
	// ErrNotAuthenticated is returned when a call needs a token and none is stored
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrUnauthorized is returned when the backend rejects the token (HTTP 401)
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden is returned on HTTP 403
	ErrForbidden = errors.New("forbidden")

	// ErrLoginFailed is returned when login fails
	ErrLoginFailed = errors.New("login failed")

	// ErrLoginInProgress is returned when a second login starts while one is in flight
	ErrLoginInProgress = errors.New("login already in progress")

	// ErrRateLimited is returned when rate limited
	ErrRateLimited = errors.New("rate limited")

	// ErrTimeout is returned on timeout
	ErrTimeout = errors.New("request timeout")

	// ErrNotFound is returned when resource not found
	ErrNotFound = errors.New("resource not found")

	// ErrServerError is returned for server errors
	ErrServerError = errors.New("server error")

	// ErrBackendFailure is returned when a response envelope reports success=false
	ErrBackendFailure = errors.New("backend reported failure")
)
