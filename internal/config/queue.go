package config

import (
	"fmt"
	"net/url"
	"os"
	"time"
)

const (
	EnvQueueEndpoint = "LUMEN_QUEUE_ENDPOINT"
	EnvQueueTimeout  = "LUMEN_QUEUE_TIMEOUT"
)

// QueueConfig holds the batch queue backend settings.
// Endpoint may be left empty and supplied at runtime through the session API.
type QueueConfig struct {
	Endpoint string `toml:"endpoint"`
	Timeout  string `toml:"timeout"`
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *QueueConfig) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *QueueConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *QueueConfig) Merge(overlay *QueueConfig) {
	if overlay.Endpoint != "" {
		c.Endpoint = overlay.Endpoint
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
}

func (c *QueueConfig) loadDefaults() {
	if c.Timeout == "" {
		c.Timeout = "30s"
	}
}

func (c *QueueConfig) loadEnv() {
	if v := os.Getenv(EnvQueueEndpoint); v != "" {
		c.Endpoint = v
	}
	if v := os.Getenv(EnvQueueTimeout); v != "" {
		c.Timeout = v
	}
}

func (c *QueueConfig) validate() error {
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	if c.Endpoint != "" {
		u, err := url.Parse(c.Endpoint)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid endpoint: %q", c.Endpoint)
		}
	}
	return nil
}
