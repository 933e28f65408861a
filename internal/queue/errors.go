package queue

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for queue operations.
var (
	ErrNotConfigured  = errors.New("queue endpoint is not configured")
	ErrNoMoreBatches  = errors.New("no more batches available")
	ErrRequestFailed  = errors.New("queue request failed")
	ErrInvalidPayload = errors.New("invalid queue payload")
)

// PayloadError reports a queue response that failed schema validation.
type PayloadError struct {
	Action Action
	Err    error
}

func (e *PayloadError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrInvalidPayload, e.Action, e.Err)
}

func (e *PayloadError) Unwrap() []error {
	return []error{ErrInvalidPayload, e.Err}
}

// MapHTTPStatus maps queue errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotConfigured) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrNoMoreBatches) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrRequestFailed) || errors.Is(err, ErrInvalidPayload) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
