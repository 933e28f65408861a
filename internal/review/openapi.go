package review

import (
	"net/http"

	"github.com/JaimeStill/lumen/pkg/openapi"
)

func nullable(typ, description string) *openapi.Schema {
	return &openapi.Schema{Type: []string{typ, "null"}, Description: description}
}

var schemas = map[string]*openapi.Schema{
	"Judgment": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"lightsOn":    {Type: "boolean", Description: "Whether the ceiling lights are on"},
			"confidence":  {Type: "number", Description: "Classifier confidence in [0, 1]"},
			"explanation": {Type: "string"},
		},
	},
	"Record": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"key":                 {Type: "string", Format: "uuid", Description: "Unique record key"},
			"id":                  {Type: "string", Description: "Backend image id"},
			"name":                {Type: "string"},
			"preview_url":         {Type: "string"},
			"direct_download_url": {Type: "string"},
			"folder_name":         {Type: "string"},
			"judgment":            {Ref: "#/components/schemas/Judgment"},
			"error":               {Type: "string", Description: "Analysis failure, when present"},
			"human_override":      nullable("boolean", "Reviewer decision"),
			"final_status":        nullable("boolean", "Reviewed lights status"),
			"resolved_status":     nullable("boolean", "Final status, or the provisional classifier status"),
			"validation_status":   openapi.Enum("Human review outcome", "pending", "confirmed", "denied"),
			"fetched_at":          {Type: "string", Format: "date-time"},
			"analyzed_at":         {Type: "string", Format: "date-time"},
			"reviewed_at":         {Type: "string", Format: "date-time"},
		},
	},
	"BatchInfo": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"folder_name":   {Type: "string"},
			"folder_id":     {Type: "string"},
			"batch_index":   {Type: "integer"},
			"total_batches": {Type: "integer"},
		},
	},
	"BatchView": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"info":    {Ref: "#/components/schemas/BatchInfo"},
			"records": openapi.ArrayOf("Record"),
		},
	},
	"Session": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"id":         {Type: "string", Format: "uuid"},
			"endpoint":   {Type: "string"},
			"configured": {Type: "boolean"},
			"started_at": {Type: "string", Format: "date-time"},
			"history":    {Type: "integer"},
			"batch":      {Type: "integer"},
			"analyzing":  {Type: "integer"},
			"reviewed":   {Type: "integer"},
		},
	},
	"Status": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"id":         {Type: "string"},
			"kind":       openapi.Enum("Message severity", "info", "success", "error"),
			"text":       {Type: "string"},
			"created_at": {Type: "string", Format: "date-time"},
		},
	},
	"RecordPage": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"data":        openapi.ArrayOf("Record"),
			"total":       {Type: "integer"},
			"page":        {Type: "integer"},
			"page_size":   {Type: "integer"},
			"total_pages": {Type: "integer"},
		},
	},
	"ConfigureRequest": {
		Type:       "object",
		Properties: map[string]*openapi.Schema{"endpoint": {Type: "string", Description: "http(s) URL of the queue backend"}},
		Required:   []string{"endpoint"},
	},
	"ResetRequest": {
		Type:       "object",
		Properties: map[string]*openapi.Schema{"confirm": {Type: "boolean"}},
		Required:   []string{"confirm"},
	},
	"NextResponse": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"done":  {Type: "boolean", Description: "Set when the backend has no more batches"},
			"batch": {Ref: "#/components/schemas/BatchView"},
		},
	},
}

var recordParam = openapi.PathParam("id", "Record key or image id; an image id resolves to its latest record")

var ops = struct {
	Session, Configure, Init, Next, Reset *openapi.Operation
	Batch, History, Find, Confirm, Deny   *openapi.Operation
	Status                                *openapi.Operation
}{
	Session: &openapi.Operation{
		Summary: "Get the session summary",
		Responses: map[int]*openapi.Response{
			http.StatusOK: openapi.ResponseJSON("Session summary", "Session"),
		},
	},
	Configure: &openapi.Operation{
		Summary:     "Set the queue endpoint",
		RequestBody: openapi.RequestBodyJSON("ConfigureRequest", true),
		Responses: map[int]*openapi.Response{
			http.StatusOK:         openapi.ResponseJSON("Session summary", "Session"),
			http.StatusBadRequest: openapi.ResponseRef(openapi.BadRequest),
		},
	},
	Init: &openapi.Operation{
		Summary: "Initialize the backend queue",
		Responses: map[int]*openapi.Response{
			http.StatusOK:         openapi.ResponseJSON("Session summary", "Session"),
			http.StatusConflict:   openapi.ResponseRef(openapi.Conflict),
			http.StatusBadGateway: openapi.ResponseRef(openapi.BadGateway),
		},
	},
	Next: &openapi.Operation{
		Summary:     "Fetch the next batch",
		Description: "Replaces the current batch and queues every image for analysis.",
		Responses: map[int]*openapi.Response{
			http.StatusOK:         openapi.ResponseJSON("No more batches", "NextResponse"),
			http.StatusAccepted:   openapi.ResponseJSON("Batch loaded, analysis running", "NextResponse"),
			http.StatusConflict:   openapi.ResponseRef(openapi.Conflict),
			http.StatusBadGateway: openapi.ResponseRef(openapi.BadGateway),
		},
	},
	Reset: &openapi.Operation{
		Summary:     "Reset the backend queue",
		RequestBody: openapi.RequestBodyJSON("ResetRequest", true),
		Responses: map[int]*openapi.Response{
			http.StatusOK:                   openapi.ResponseJSON("Session summary", "Session"),
			http.StatusPreconditionRequired: openapi.ResponseRef(openapi.PreconditionRequired),
			http.StatusConflict:             openapi.ResponseRef(openapi.Conflict),
			http.StatusBadGateway:           openapi.ResponseRef(openapi.BadGateway),
		},
	},
	Batch: &openapi.Operation{
		Summary: "Get the current batch",
		Responses: map[int]*openapi.Response{
			http.StatusOK: openapi.ResponseJSON("Current batch", "BatchView"),
		},
	},
	History: &openapi.Operation{
		Summary: "Search the session history",
		Parameters: []*openapi.Parameter{
			openapi.QueryParam("page", "integer", "Page number", false),
			openapi.QueryParam("page_size", "integer", "Results per page", false),
			openapi.QueryParam("search", "string", "Matches name, id, folder, explanation, or error", false),
			openapi.QueryParam("status", "string", "pending, confirmed, or denied", false),
			openapi.QueryParam("folder", "string", "Exact folder name", false),
		},
		Responses: map[int]*openapi.Response{
			http.StatusOK:         openapi.ResponseJSON("Page of records", "RecordPage"),
			http.StatusBadRequest: openapi.ResponseRef(openapi.BadRequest),
		},
	},
	Find: &openapi.Operation{
		Summary:    "Get a record",
		Parameters: []*openapi.Parameter{recordParam},
		Responses: map[int]*openapi.Response{
			http.StatusOK:       openapi.ResponseJSON("Record", "Record"),
			http.StatusNotFound: openapi.ResponseRef(openapi.NotFound),
		},
	},
	Confirm: &openapi.Operation{
		Summary:    "Confirm the classifier judgment",
		Parameters: []*openapi.Parameter{recordParam},
		Responses: map[int]*openapi.Response{
			http.StatusOK:       openapi.ResponseJSON("Updated record", "Record"),
			http.StatusNotFound: openapi.ResponseRef(openapi.NotFound),
		},
	},
	Deny: &openapi.Operation{
		Summary:    "Deny the classifier judgment",
		Parameters: []*openapi.Parameter{recordParam},
		Responses: map[int]*openapi.Response{
			http.StatusOK:       openapi.ResponseJSON("Updated record", "Record"),
			http.StatusNotFound: openapi.ResponseRef(openapi.NotFound),
		},
	},
	Status: &openapi.Operation{
		Summary: "List live status messages",
		Responses: map[int]*openapi.Response{
			http.StatusOK: {
				Description: "Status messages, oldest first",
				Content: map[string]*openapi.MediaType{
					"application/json": {Schema: openapi.ArrayOf("Status")},
				},
			},
		},
	},
}
