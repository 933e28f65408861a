// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"net/http"

	"github.com/JaimeStill/lumen/internal/config"
	"github.com/JaimeStill/lumen/pkg/middleware"
	"github.com/JaimeStill/lumen/pkg/module"
)

// NewModule creates the API module with all domain handlers, the OpenAPI
// document at /openapi.json, and middleware.
func NewModule(cfg *config.Config, runtime *Runtime, domain *Domain) (*module.Module, error) {
	mux := http.NewServeMux()
	if err := registerRoutes(mux, cfg, domain); err != nil {
		return nil, err
	}

	m := module.New(cfg.API.BasePath, mux)
	m.Use(
		middleware.CORS(&cfg.API.CORS),
		middleware.Logger(runtime.Logger),
		middleware.Recover(runtime.Logger),
	)

	return m, nil
}
