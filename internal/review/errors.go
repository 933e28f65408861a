package review

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/lumen/internal/queue"
)

// Domain errors for review operations.
var (
	ErrNotFound          = errors.New("record not found")
	ErrInvalidEndpoint   = errors.New("invalid queue endpoint")
	ErrResetNotConfirmed = errors.New("reset requires confirmation")
	ErrInvalidStatus     = errors.New("invalid validation status")
)

// MapHTTPStatus maps review and queue errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrInvalidEndpoint) || errors.Is(err, ErrInvalidStatus) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrResetNotConfirmed) {
		return http.StatusPreconditionRequired
	}
	return queue.MapHTTPStatus(err)
}
