// Package infrastructure provides core service initialization for application startup.
// It assembles the shared dependencies (logging, metrics, classifier, storage)
// that domain systems require.
package infrastructure

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/JaimeStill/lumen/internal/classifier"
	"github.com/JaimeStill/lumen/internal/config"
	"github.com/JaimeStill/lumen/internal/metrics"
	"github.com/JaimeStill/lumen/pkg/lifecycle"
	"github.com/JaimeStill/lumen/pkg/storage"
)

// Infrastructure holds the core systems required by all domain modules.
// Storage is nil when no blob storage connection is configured.
type Infrastructure struct {
	Lifecycle  *lifecycle.Coordinator
	Logger     *slog.Logger
	Metrics    *metrics.Metrics
	Classifier classifier.System
	Storage    storage.System
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m, err := metrics.New(registry)
	if err != nil {
		return nil, fmt.Errorf("metrics init failed: %w", err)
	}

	cls, err := classifier.New(lc.Context(), &cfg.Classifier, logger)
	if err != nil {
		return nil, fmt.Errorf("classifier init failed: %w", err)
	}

	store, err := storage.New(&cfg.Storage, logger)
	if errors.Is(err, storage.ErrDisabled) {
		logger.Info("report archive disabled: no storage connection configured")
		store = nil
	} else if err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	return &Infrastructure{
		Lifecycle:  lc,
		Logger:     logger,
		Metrics:    m,
		Classifier: cls,
		Storage:    store,
	}, nil
}

// Start registers infrastructure systems with the lifecycle coordinator.
func (i *Infrastructure) Start() error {
	if i.Storage == nil {
		return nil
	}
	if err := i.Storage.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("storage start failed: %w", err)
	}
	return nil
}
