package openapi

import (
	"maps"
	"net/http"
)

// Shared component response names.
const (
	BadRequest           = "BadRequest"
	NotFound             = "NotFound"
	Conflict             = "Conflict"
	PreconditionRequired = "PreconditionRequired"
	BadGateway           = "BadGateway"
	ServiceUnavailable   = "ServiceUnavailable"
)

var errorResponses = map[string]int{
	BadRequest:           http.StatusBadRequest,
	NotFound:             http.StatusNotFound,
	Conflict:             http.StatusConflict,
	PreconditionRequired: http.StatusPreconditionRequired,
	BadGateway:           http.StatusBadGateway,
	ServiceUnavailable:   http.StatusServiceUnavailable,
}

// NewComponents creates Components with the shared error schema, the page
// request schema, and one error response per shared response name.
func NewComponents() *Components {
	c := &Components{
		Schemas: map[string]*Schema{
			"Error": {
				Type: "object",
				Properties: map[string]*Schema{
					"error": {Type: "string", Description: "Error message"},
				},
				Required: []string{"error"},
			},
			"PageRequest": {
				Type: "object",
				Properties: map[string]*Schema{
					"page":      {Type: "integer", Description: "Page number (1-indexed)", Example: 1},
					"page_size": {Type: "integer", Description: "Results per page", Example: 20},
					"search":    {Type: "string", Description: "Case-insensitive search term"},
				},
			},
		},
		Responses: make(map[string]*Response, len(errorResponses)),
	}

	for name, status := range errorResponses {
		c.Responses[name] = ResponseJSON(http.StatusText(status), "Error")
	}

	return c
}

// AddSchemas merges the given schemas into the component schemas.
func (c *Components) AddSchemas(schemas map[string]*Schema) {
	maps.Copy(c.Schemas, schemas)
}

// AddResponses merges the given responses into the component responses.
func (c *Components) AddResponses(responses map[string]*Response) {
	maps.Copy(c.Responses, responses)
}
