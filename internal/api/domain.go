package api

import (
	"github.com/JaimeStill/lumen/internal/config"
	"github.com/JaimeStill/lumen/internal/report"
	"github.com/JaimeStill/lumen/internal/review"
	"github.com/JaimeStill/lumen/pkg/lifecycle"
)

// Domain holds all domain systems shared by the API and app modules.
type Domain struct {
	Review  review.System
	Reports report.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(cfg *config.Config, runtime *Runtime) (*Domain, error) {
	reviewSystem, err := review.New(
		runtime.Classifier,
		&cfg.Queue,
		&cfg.Review,
		runtime.Pagination,
		runtime.Metrics,
		runtime.Logger,
	)
	if err != nil {
		return nil, err
	}

	reportSystem := report.New(
		reviewSystem,
		runtime.Storage,
		cfg.Review.ExportFilename,
		runtime.Metrics,
		runtime.Logger,
	)

	return &Domain{
		Review:  reviewSystem,
		Reports: reportSystem,
	}, nil
}

// Start launches background processing for the domain systems.
func (d *Domain) Start(lc *lifecycle.Coordinator) {
	d.Review.Start(lc)
}
