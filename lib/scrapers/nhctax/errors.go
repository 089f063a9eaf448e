package nhctax

import (
	"errors"
	"fmt"
)

var (
	ErrInputValidation  = errors.New("query must not be empty")
	ErrTokenExtraction  = errors.New("could not find view state token in form page")
	ErrExtractionFailed = errors.New("could not locate results container in response")
	ErrRateLimitTimeout = errors.New("deadline exceeded while waiting for a request slot")

	// the portal rejected the submitted view state token,
	// recovered internally by a forced token refresh
	errTokenExpired = errors.New("upstream rejected the form token")
)

// UpstreamUnavailableError is returned once the retry budget is
// exhausted, carrying the last underlying cause.
type UpstreamUnavailableError struct {
	Attempts int
	Cause    error
}

func (e *UpstreamUnavailableError) Error() string {
	return fmt.Sprintf("upstream unavailable after %d attempts: %v", e.Attempts, e.Cause)
}

func (e *UpstreamUnavailableError) Unwrap() error {
	return e.Cause
}

// StatusError is a non-retryable upstream HTTP status.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream returned status %d", e.StatusCode)
}
