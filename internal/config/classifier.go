package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/JaimeStill/lumen/pkg/formatting"
)

const (
	EnvClassifierProvider     = "LUMEN_CLASSIFIER_PROVIDER"
	EnvClassifierModel        = "LUMEN_CLASSIFIER_MODEL"
	EnvClassifierAPIKey       = "LUMEN_CLASSIFIER_API_KEY"
	EnvClassifierRelayURL     = "LUMEN_CLASSIFIER_RELAY_URL"
	EnvClassifierTimeout      = "LUMEN_CLASSIFIER_TIMEOUT"
	EnvClassifierMaxImageSize = "LUMEN_CLASSIFIER_MAX_IMAGE_SIZE"
	EnvClassifierMaxTokens    = "LUMEN_CLASSIFIER_MAX_TOKENS"

	EnvGeminiAPIKey    = "GEMINI_API_KEY"
	EnvAnthropicAPIKey = "ANTHROPIC_API_KEY"
)

// Supported classifier providers.
const (
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
)

var defaultModels = map[string]string{
	ProviderGemini:    "gemini-1.5-flash",
	ProviderAnthropic: "claude-sonnet-4-5",
}

// ClassifierConfig holds the multimodal classifier settings.
// APIKey is never read from config files; it only comes from the environment.
type ClassifierConfig struct {
	Provider     string `toml:"provider"`
	Model        string `toml:"model"`
	RelayURL     string `toml:"relay_url"`
	Timeout      string `toml:"timeout"`
	MaxImageSize string `toml:"max_image_size"`
	MaxTokens    int    `toml:"max_tokens"`
	APIKey       string `toml:"-"`
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *ClassifierConfig) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// MaxImageSizeBytes returns MaxImageSize in bytes.
func (c *ClassifierConfig) MaxImageSizeBytes() int64 {
	size, err := formatting.ParseBytes(c.MaxImageSize)
	if err != nil {
		return 20 * 1024 * 1024
	}
	return size
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *ClassifierConfig) Finalize() error {
	c.loadEnv()
	c.loadDefaults()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *ClassifierConfig) Merge(overlay *ClassifierConfig) {
	if overlay.Provider != "" {
		c.Provider = overlay.Provider
	}
	if overlay.Model != "" {
		c.Model = overlay.Model
	}
	if overlay.RelayURL != "" {
		c.RelayURL = overlay.RelayURL
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if overlay.MaxImageSize != "" {
		c.MaxImageSize = overlay.MaxImageSize
	}
	if overlay.MaxTokens != 0 {
		c.MaxTokens = overlay.MaxTokens
	}
}

// defaults depend on the provider, so env overrides are applied first.
func (c *ClassifierConfig) loadDefaults() {
	if c.Provider == "" {
		c.Provider = ProviderGemini
	}
	if c.Model == "" {
		c.Model = defaultModels[c.Provider]
	}
	if c.Timeout == "" {
		c.Timeout = "60s"
	}
	if c.MaxImageSize == "" {
		c.MaxImageSize = "20MB"
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = 512
	}
	if c.APIKey == "" {
		switch c.Provider {
		case ProviderGemini:
			c.APIKey = os.Getenv(EnvGeminiAPIKey)
		case ProviderAnthropic:
			c.APIKey = os.Getenv(EnvAnthropicAPIKey)
		}
	}
}

func (c *ClassifierConfig) loadEnv() {
	if v := os.Getenv(EnvClassifierProvider); v != "" {
		c.Provider = v
	}
	if v := os.Getenv(EnvClassifierModel); v != "" {
		c.Model = v
	}
	if v := os.Getenv(EnvClassifierAPIKey); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv(EnvClassifierRelayURL); v != "" {
		c.RelayURL = v
	}
	if v := os.Getenv(EnvClassifierTimeout); v != "" {
		c.Timeout = v
	}
	if v := os.Getenv(EnvClassifierMaxImageSize); v != "" {
		c.MaxImageSize = v
	}
	if v := os.Getenv(EnvClassifierMaxTokens); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxTokens = n
		}
	}
}

func (c *ClassifierConfig) validate() error {
	if _, ok := defaultModels[c.Provider]; !ok {
		return fmt.Errorf("unknown provider: %q", c.Provider)
	}
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	if _, err := formatting.ParseBytes(c.MaxImageSize); err != nil {
		return fmt.Errorf("invalid max_image_size: %w", err)
	}
	return nil
}
