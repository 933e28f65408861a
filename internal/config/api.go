package config

import (
	"fmt"
	"os"

	"github.com/JaimeStill/lumen/pkg/middleware"
	"github.com/JaimeStill/lumen/pkg/openapi"
	"github.com/JaimeStill/lumen/pkg/pagination"
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "LUMEN_CORS_ENABLED",
	Origins:          "LUMEN_CORS_ORIGINS",
	AllowedMethods:   "LUMEN_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "LUMEN_CORS_ALLOWED_HEADERS",
	AllowCredentials: "LUMEN_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "LUMEN_CORS_MAX_AGE",
}

var openAPIEnv = &openapi.ConfigEnv{
	Title:       "LUMEN_OPENAPI_TITLE",
	Description: "LUMEN_OPENAPI_DESCRIPTION",
}

var paginationEnv = &pagination.ConfigEnv{
	DefaultPageSize: "LUMEN_PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:     "LUMEN_PAGINATION_MAX_PAGE_SIZE",
}

// APIConfig holds API routing, CORS, OpenAPI, and pagination settings.
// AppPath is the mount point of the HTML review pages.
type APIConfig struct {
	BasePath   string                `toml:"base_path"`
	AppPath    string                `toml:"app_path"`
	CORS       middleware.CORSConfig `toml:"cors"`
	OpenAPI    openapi.Config        `toml:"openapi"`
	Pagination pagination.Config     `toml:"pagination"`
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested CORS, OpenAPI, and pagination configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if c.AppPath == c.BasePath {
		return fmt.Errorf("app_path and base_path must differ: %s", c.AppPath)
	}
	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.OpenAPI.Finalize(openAPIEnv); err != nil {
		return fmt.Errorf("openapi: %w", err)
	}
	if err := c.Pagination.Finalize(paginationEnv); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.AppPath != "" {
		c.AppPath = overlay.AppPath
	}

	c.CORS.Merge(&overlay.CORS)
	c.OpenAPI.Merge(&overlay.OpenAPI)
	c.Pagination.Merge(&overlay.Pagination)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.AppPath == "" {
		c.AppPath = "/app"
	}
}

func (c *APIConfig) loadEnv() {
	if v := os.Getenv("LUMEN_API_BASE_PATH"); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv("LUMEN_API_APP_PATH"); v != "" {
		c.AppPath = v
	}
}
