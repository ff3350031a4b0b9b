package service

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrValidationFailure marks a local precondition that was not met. It is a skip, not a failure.
	ErrValidationFailure = errors.New("validation failure")
	// ErrRemoteRejection is returned when the Publishing API rejects a request
	ErrRemoteRejection = errors.New("rejected by publishing api")
	// ErrRemoteTransient is returned for network errors, rate limiting and 5xx responses
	ErrRemoteTransient = errors.New("transient publishing api failure")
	// ErrNotFound is returned when the Publishing API has no content for the id
	ErrNotFound = errors.New("not found in publishing api")
	// ErrNotFoundLocally is returned when a document or a required record is missing
	ErrNotFoundLocally = errors.New("not found locally")
)

// APIError describes a failed Publishing API request
type APIError struct {
	Operation  string
	ContentID  string
	StatusCode int
	Body       string
	Err        error
}

func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s %s: %v", e.Operation, e.ContentID, e.Err)
	}
	return fmt.Sprintf("%s %s: HTTP %d: %v: %s", e.Operation, e.ContentID, e.StatusCode, e.Err, e.Body)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// classifyStatus maps an HTTP status code to one of the gateway sentinels
func classifyStatus(code int) error {
	switch {
	case code == http.StatusNotFound:
		return ErrNotFound
	case code == http.StatusTooManyRequests, code >= 500:
		return ErrRemoteTransient
	default:
		return ErrRemoteRejection
	}
}

// IsRetryable reports whether err is worth retrying later
func IsRetryable(err error) bool {
	return errors.Is(err, ErrRemoteTransient)
}
