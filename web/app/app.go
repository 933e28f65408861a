// Package app serves the server-rendered review interface: configuration,
// queue controls, batch and history cards, status messages, and a
// full-screen image view.
package app

import (
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/lumen/internal/report"
	"github.com/JaimeStill/lumen/internal/review"
	"github.com/JaimeStill/lumen/pkg/middleware"
	"github.com/JaimeStill/lumen/pkg/module"
	"github.com/JaimeStill/lumen/pkg/pagination"
	"github.com/JaimeStill/lumen/pkg/web"
)

//go:embed templates
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

const layout = "layout"

var (
	indexView = web.ViewDef{Template: "index.html", Title: "Bus Shelter Light Review", Bundle: "app"}
	imageView = web.ViewDef{Template: "image.html", Title: "Image", Bundle: "app"}
	errorView = web.ViewDef{Template: "error.html", Title: "Not Found", Bundle: "app"}
)

// refreshSeconds is the page reload interval while analysis or status
// messages are live.
const refreshSeconds = 3

// NewModule creates the app module mounted at basePath.
func NewModule(
	basePath string,
	rev review.System,
	rep report.System,
	pagination pagination.Config,
	logger *slog.Logger,
) (*module.Module, error) {
	ts, err := web.NewTemplateSet(
		templateFS, templateFS,
		"templates/layout.html", "templates/views",
		basePath,
		funcs(),
		[]web.ViewDef{indexView, imageView, errorView},
	)
	if err != nil {
		return nil, fmt.Errorf("parse app templates: %w", err)
	}

	h := newHandler(ts, rev, rep, pagination, logger)

	router := web.NewRouter()
	router.Mount(h.routes())
	router.HandleFunc("GET /static/", web.DistServer(staticFS, "static", "/static/"))
	router.SetFallback(ts.ErrorHandler(layout, errorView, http.StatusNotFound))

	m := module.New(basePath, router)
	m.Use(middleware.Logger(h.logger), middleware.Recover(h.logger))

	return m, nil
}

func funcs() template.FuncMap {
	return template.FuncMap{
		"onOff": func(b *bool) string {
			switch {
			case b == nil:
				return "N/A"
			case *b:
				return "ON"
			default:
				return "OFF"
			}
		},
		"percent": func(f float64) string {
			return fmt.Sprintf("%.1f%%", f*100)
		},
		"lights": func(on bool) string {
			if on {
				return "ON"
			}
			return "OFF"
		},
	}
}
