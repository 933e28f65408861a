package review

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/lumen/internal/queue"
	"github.com/JaimeStill/lumen/pkg/handlers"
	"github.com/JaimeStill/lumen/pkg/pagination"
	"github.com/JaimeStill/lumen/pkg/routes"
)

// Handler provides HTTP endpoints for the review session.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
}

// ConfigureRequest sets the queue endpoint.
type ConfigureRequest struct {
	Endpoint string `json:"endpoint"`
}

// ResetRequest carries the explicit confirmation a reset requires.
type ResetRequest struct {
	Confirm bool `json:"confirm"`
}

// NextResponse is returned by the next endpoint. Done is set when the
// backend has no more batches.
type NextResponse struct {
	Done  bool       `json:"done"`
	Batch *BatchView `json:"batch"`
}

// NewHandler creates a Handler with the given system, logger, and pagination config.
func NewHandler(sys System, logger *slog.Logger, pagination pagination.Config) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "review"),
		pagination: pagination,
	}
}

// Routes returns the route group definition for review endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:      "/review",
		Tags:        []string{"Review"},
		Description: "Queue control, batch analysis, and reviewer decisions",
		Schemas:     schemas,
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/session", Handler: h.Session, OpenAPI: ops.Session},
			{Method: "PUT", Pattern: "/session", Handler: h.Configure, OpenAPI: ops.Configure},
			{Method: "POST", Pattern: "/init", Handler: h.Init, OpenAPI: ops.Init},
			{Method: "POST", Pattern: "/next", Handler: h.Next, OpenAPI: ops.Next},
			{Method: "POST", Pattern: "/reset", Handler: h.Reset, OpenAPI: ops.Reset},
			{Method: "GET", Pattern: "/batch", Handler: h.Batch, OpenAPI: ops.Batch},
			{Method: "GET", Pattern: "/history", Handler: h.History, OpenAPI: ops.History},
			{Method: "GET", Pattern: "/status", Handler: h.Status, OpenAPI: ops.Status},
		},
		Children: []routes.Group{
			{
				Prefix: "/records/{id}",
				Routes: []routes.Route{
					{Method: "GET", Pattern: "", Handler: h.Find, OpenAPI: ops.Find},
					{Method: "POST", Pattern: "/confirm", Handler: h.Confirm, OpenAPI: ops.Confirm},
					{Method: "POST", Pattern: "/deny", Handler: h.Deny, OpenAPI: ops.Deny},
				},
			},
		},
	}
}

// Session returns the session summary.
func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, h.sys.Session())
}

// Configure sets the queue endpoint from a JSON body.
func (h *Handler) Configure(w http.ResponseWriter, r *http.Request) {
	var req ConfigureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidEndpoint)
		return
	}

	if err := h.sys.Configure(req.Endpoint); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, h.sys.Session())
}

// Init asks the backend to build its queue.
func (h *Handler) Init(w http.ResponseWriter, r *http.Request) {
	if err := h.sys.Init(r.Context()); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, h.sys.Session())
}

// Next fetches the next batch and starts its analysis.
func (h *Handler) Next(w http.ResponseWriter, r *http.Request) {
	view, err := h.sys.Next(r.Context())
	if errors.Is(err, queue.ErrNoMoreBatches) {
		handlers.RespondJSON(w, http.StatusOK, NextResponse{Done: true})
		return
	}
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusAccepted, NextResponse{Batch: view})
}

// Reset rewinds the backend queue. The body must carry {"confirm": true}.
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	var req ResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrResetNotConfirmed)
		return
	}

	if err := h.sys.Reset(r.Context(), req.Confirm); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, h.sys.Session())
}

// Batch returns the current batch.
func (h *Handler) Batch(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, h.sys.Batch())
}

// History returns a page of session history filtered by query parameters.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)

	filters, err := FiltersFromQuery(r.URL.Query())
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, h.sys.Search(page, filters))
}

// Find returns the record for an image id or record key.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	rec, err := h.sys.Find(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, rec)
}

// Confirm accepts the classifier judgment for a record.
func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	rec, err := h.sys.Confirm(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, rec)
}

// Deny reverses the classifier judgment for a record.
func (h *Handler) Deny(w http.ResponseWriter, r *http.Request) {
	rec, err := h.sys.Deny(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, rec)
}

// Status returns the live status messages.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, h.sys.Statuses())
}
