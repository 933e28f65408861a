package api

import (
	"github.com/JaimeStill/lumen/internal/config"
	"github.com/JaimeStill/lumen/internal/infrastructure"
	"github.com/JaimeStill/lumen/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination pagination.Config
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle:  infra.Lifecycle,
			Logger:     infra.Logger.With("module", "api"),
			Metrics:    infra.Metrics,
			Classifier: infra.Classifier,
			Storage:    infra.Storage,
		},
		Pagination: cfg.API.Pagination,
	}
}
