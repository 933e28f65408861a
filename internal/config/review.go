package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	EnvReviewWorkers        = "LUMEN_REVIEW_WORKERS"
	EnvReviewStatusTTL      = "LUMEN_REVIEW_STATUS_TTL"
	EnvReviewExportFilename = "LUMEN_REVIEW_EXPORT_FILENAME"
)

// ReviewConfig holds review session settings.
// Workers bounds concurrent classifier calls; 1 analyzes images strictly in order.
type ReviewConfig struct {
	Workers        int    `toml:"workers"`
	StatusTTL      string `toml:"status_ttl"`
	ExportFilename string `toml:"export_filename"`
}

// StatusTTLDuration returns StatusTTL as a time.Duration.
func (c *ReviewConfig) StatusTTLDuration() time.Duration {
	d, _ := time.ParseDuration(c.StatusTTL)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *ReviewConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *ReviewConfig) Merge(overlay *ReviewConfig) {
	if overlay.Workers != 0 {
		c.Workers = overlay.Workers
	}
	if overlay.StatusTTL != "" {
		c.StatusTTL = overlay.StatusTTL
	}
	if overlay.ExportFilename != "" {
		c.ExportFilename = overlay.ExportFilename
	}
}

func (c *ReviewConfig) loadDefaults() {
	if c.Workers == 0 {
		c.Workers = 1
	}
	if c.StatusTTL == "" {
		c.StatusTTL = "5s"
	}
	if c.ExportFilename == "" {
		c.ExportFilename = "Bus_Shelter_Light_Validation_Report.xlsx"
	}
}

func (c *ReviewConfig) loadEnv() {
	if v := os.Getenv(EnvReviewWorkers); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Workers = n
		}
	}
	if v := os.Getenv(EnvReviewStatusTTL); v != "" {
		c.StatusTTL = v
	}
	if v := os.Getenv(EnvReviewExportFilename); v != "" {
		c.ExportFilename = v
	}
}

func (c *ReviewConfig) validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("workers must be positive: %d", c.Workers)
	}
	d, err := time.ParseDuration(c.StatusTTL)
	if err != nil {
		return fmt.Errorf("invalid status_ttl: %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("status_ttl must be positive")
	}
	return nil
}
