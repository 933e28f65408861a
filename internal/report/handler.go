package report

import (
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path"
	"strconv"

	"github.com/JaimeStill/lumen/pkg/handlers"
	"github.com/JaimeStill/lumen/pkg/routes"
	"github.com/JaimeStill/lumen/pkg/storage"
)

// Handler provides HTTP endpoints for report export.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "report"),
	}
}

// Routes returns the route group definition for report endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:      "/reports",
		Tags:        []string{"Reports"},
		Description: "Validation report export and archive",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/export", Handler: h.Export, OpenAPI: ops.Export},
			{Method: "GET", Pattern: "/archive/{key...}", Handler: h.Archive, OpenAPI: ops.Archive},
		},
	}
}

// Export streams the workbook for the full session history.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	file, err := h.sys.Export(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	if file.ArchiveKey != "" {
		w.Header().Set("X-Archive-Key", file.ArchiveKey)
	}
	handlers.RespondAttachment(w, ContentType, file.Name, file.Data)
}

// Archive streams a previously archived workbook.
func (h *Handler) Archive(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	if err := storage.ValidateKey(key); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	blob, err := h.sys.Archived(r.Context(), key)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	defer blob.Body.Close()

	w.Header().Set("Content-Type", blob.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": path.Base(key)}))
	if blob.ContentLength > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(blob.ContentLength, 10))
	}
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, blob.Body); err != nil {
		h.logger.Error("archive stream interrupted", "key", key, "error", err)
	}
}
