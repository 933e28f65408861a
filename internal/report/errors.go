package report

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/lumen/pkg/storage"
)

// ErrNothingToExport indicates the session history is empty.
var ErrNothingToExport = errors.New("no data to export")

// MapHTTPStatus maps report and storage errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNothingToExport) {
		return http.StatusNotFound
	}
	return storage.MapHTTPStatus(err)
}
