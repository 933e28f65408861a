// Package routes declares HTTP routes as data so handlers can publish
// their surface and callers can mount and document it on any mux.
package routes

import (
	"net/http"
	"strings"

	"github.com/JaimeStill/lumen/pkg/openapi"
)

// Route binds an HTTP method and pattern to a handler.
// An empty Method registers the pattern for every method.
// Routes without OpenAPI metadata are left out of generated documentation.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
	OpenAPI *openapi.Operation
}

func (r Route) pattern(prefix string) string {
	path := prefix + r.Pattern
	if path == "" {
		path = "/"
	}
	if r.Method == "" {
		return path
	}
	return strings.ToUpper(r.Method) + " " + path
}

// specPath converts a ServeMux path into an OpenAPI path template:
// "{$}" anchors are dropped and "{name...}" wildcards become "{name}".
func specPath(path string) string {
	path = strings.TrimSuffix(path, "{$}")
	path = strings.ReplaceAll(path, "...}", "}")
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	return path
}
