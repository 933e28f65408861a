package report

import (
	"net/http"

	"github.com/JaimeStill/lumen/pkg/openapi"
)

var ops = struct {
	Export, Archive *openapi.Operation
}{
	Export: &openapi.Operation{
		Summary:     "Export the validation report",
		Description: "Builds an xlsx workbook from the full session history. When blob storage is configured the workbook is also archived and its key returned in X-Archive-Key.",
		Responses: map[int]*openapi.Response{
			http.StatusOK: {
				Description: "Validation report workbook",
				Headers: map[string]*openapi.Header{
					"X-Archive-Key": {
						Description: "Archive key, when the workbook was archived",
						Schema:      &openapi.Schema{Type: "string"},
					},
				},
				Content: map[string]*openapi.MediaType{
					ContentType: {Schema: &openapi.Schema{Type: "string", Format: "binary"}},
				},
			},
			http.StatusNotFound: openapi.ResponseRef(openapi.NotFound),
		},
	},
	Archive: &openapi.Operation{
		Summary:    "Download an archived report",
		Parameters: []*openapi.Parameter{openapi.PathParam("key", "Archive key returned by export")},
		Responses: map[int]*openapi.Response{
			http.StatusOK:                 openapi.ResponseBinary("Archived workbook", ContentType),
			http.StatusBadRequest:         openapi.ResponseRef(openapi.BadRequest),
			http.StatusNotFound:           openapi.ResponseRef(openapi.NotFound),
			http.StatusServiceUnavailable: openapi.ResponseRef(openapi.ServiceUnavailable),
		},
	},
}
