package api

import (
	"fmt"
	"net/http"

	"github.com/JaimeStill/lumen/internal/config"
	"github.com/JaimeStill/lumen/pkg/openapi"
	"github.com/JaimeStill/lumen/pkg/routes"
)

func groups(domain *Domain) []routes.Group {
	return []routes.Group{
		domain.Review.Handler().Routes(),
		domain.Reports.Handler().Routes(),
	}
}

func registerRoutes(mux *http.ServeMux, cfg *config.Config, domain *Domain) error {
	gs := groups(domain)
	routes.Register(mux, gs...)

	spec := openapi.NewSpec(cfg.API.OpenAPI.Title, cfg.Version)
	spec.SetDescription(cfg.API.OpenAPI.Description)
	spec.AddServer(cfg.API.BasePath)
	routes.Document(spec, gs...)

	data, err := openapi.MarshalJSON(spec)
	if err != nil {
		return fmt.Errorf("marshal openapi spec: %w", err)
	}
	mux.HandleFunc("GET /openapi.json", openapi.ServeSpec(data))

	return nil
}
