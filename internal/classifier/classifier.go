package classifier

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/JaimeStill/lumen/internal/config"
)

// System analyzes one image locator into a Judgment.
type System interface {
	Analyze(ctx context.Context, locator string) (*Judgment, error)
}

// Model submits an image and instruction to a multimodal provider and returns
// the raw text of its answer.
type Model interface {
	Generate(ctx context.Context, img *Image, prompt string) (string, error)
	Name() string
}

type analyzer struct {
	fetcher *Fetcher
	model   Model
	timeout time.Duration
	logger  *slog.Logger
}

// New creates a classifier System for the configured provider.
func New(ctx context.Context, cfg *config.ClassifierConfig, logger *slog.Logger) (System, error) {
	model, err := NewModel(ctx, cfg)
	if err != nil {
		return nil, err
	}

	fetcher := NewFetcher(nil, cfg.RelayURL, cfg.MaxImageSizeBytes(), logger)
	return NewWithModel(fetcher, model, cfg.TimeoutDuration(), logger), nil
}

// NewWithModel assembles a System from an explicit fetcher and model.
// A zero timeout leaves each analysis bounded only by the caller's context.
func NewWithModel(fetcher *Fetcher, model Model, timeout time.Duration, logger *slog.Logger) System {
	return &analyzer{
		fetcher: fetcher,
		model:   model,
		timeout: timeout,
		logger:  logger.With("system", "classifier", "model", model.Name()),
	}
}

// NewModel creates the Model for cfg.Provider.
func NewModel(ctx context.Context, cfg *config.ClassifierConfig) (Model, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: %s", ErrMissingAPIKey, cfg.Provider)
	}

	switch cfg.Provider {
	case config.ProviderGemini:
		return newGemini(ctx, cfg.APIKey, cfg.Model)
	case config.ProviderAnthropic:
		return newAnthropic(cfg.APIKey, cfg.Model, cfg.MaxTokens), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}
}

func (a *analyzer) Analyze(ctx context.Context, locator string) (*Judgment, error) {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	img, err := a.fetcher.Fetch(ctx, locator)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	content, err := a.model.Generate(ctx, img, Prompt())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrClassifyFailed, err)
	}

	j, err := ParseJudgment(content)
	if err != nil {
		return nil, err
	}

	a.logger.InfoContext(
		ctx, "image classified",
		"lights_on", j.LightsOn,
		"confidence", j.Confidence,
		"duration", time.Since(start),
	)

	return j, nil
}
