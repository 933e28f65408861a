package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/JaimeStill/lumen/internal/config"
)

const baseConfig = `
shutdown_timeout = "30s"
version = "0.1.0"

[server]
host = "127.0.0.1"
port = 8080
read_timeout = "1m"
write_timeout = "5m"

[api]
base_path = "/api"
app_path = "/app"

[api.cors]
enabled = false

[api.pagination]
default_page_size = 25
max_page_size = 50

[queue]
endpoint = "https://queue.example.test/exec"
timeout = "20s"

[classifier]
provider = "anthropic"
relay_url = "https://relay.example.test/fetch"
max_image_size = "10MB"

[review]
workers = 2
status_ttl = "8s"

[storage]
container_name = "reports"
`

func writeConfig(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	orig, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { os.Chdir(orig) })
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	chdir(t, dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Addr() != "127.0.0.1:8080" {
		t.Errorf("server addr: got %s, want 127.0.0.1:8080", cfg.Server.Addr())
	}
	if cfg.Queue.Endpoint != "https://queue.example.test/exec" {
		t.Errorf("queue endpoint: got %s", cfg.Queue.Endpoint)
	}
	if cfg.Queue.TimeoutDuration() != 20*time.Second {
		t.Errorf("queue timeout: got %v, want 20s", cfg.Queue.TimeoutDuration())
	}
	if cfg.Classifier.Provider != config.ProviderAnthropic {
		t.Errorf("classifier provider: got %s, want anthropic", cfg.Classifier.Provider)
	}
	if cfg.Classifier.Model != "claude-sonnet-4-5" {
		t.Errorf("classifier model: got %s, want provider default", cfg.Classifier.Model)
	}
	if cfg.Classifier.MaxImageSizeBytes() != 10*1024*1024 {
		t.Errorf("max image size: got %d", cfg.Classifier.MaxImageSizeBytes())
	}
	if cfg.Review.Workers != 2 {
		t.Errorf("review workers: got %d, want 2", cfg.Review.Workers)
	}
	if cfg.Review.StatusTTLDuration() != 8*time.Second {
		t.Errorf("status ttl: got %v, want 8s", cfg.Review.StatusTTLDuration())
	}
	if cfg.Review.ExportFilename != "Bus_Shelter_Light_Validation_Report.xlsx" {
		t.Errorf("export filename: got %s", cfg.Review.ExportFilename)
	}
	if cfg.API.Pagination.DefaultPageSize != 25 {
		t.Errorf("pagination default_page_size: got %d, want 25", cfg.API.Pagination.DefaultPageSize)
	}
	if cfg.Storage.Enabled() {
		t.Error("storage should be disabled without a connection string")
	}
}

func TestLoadWithOverlay(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	writeConfig(t, dir, "config.staging.toml", `
[review]
workers = 4

[classifier]
model = "claude-haiku-4-5"
`)
	chdir(t, dir)
	t.Setenv("LUMEN_ENV", "staging")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Review.Workers != 4 {
		t.Errorf("review workers: got %d, want 4", cfg.Review.Workers)
	}
	if cfg.Classifier.Model != "claude-haiku-4-5" {
		t.Errorf("classifier model: got %s, want claude-haiku-4-5", cfg.Classifier.Model)
	}
	if cfg.Classifier.Provider != config.ProviderAnthropic {
		t.Errorf("classifier provider should survive the overlay, got %s", cfg.Classifier.Provider)
	}
	if cfg.Env() != "staging" {
		t.Errorf("env: got %s, want staging", cfg.Env())
	}
}

func TestLoadEnvVarOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	chdir(t, dir)

	t.Setenv("LUMEN_VERSION", "2.0.0")
	t.Setenv("LUMEN_SERVER_PORT", "3000")
	t.Setenv("LUMEN_QUEUE_ENDPOINT", "http://localhost:9000/queue")
	t.Setenv("LUMEN_REVIEW_WORKERS", "3")
	t.Setenv("LUMEN_CLASSIFIER_PROVIDER", "gemini")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Version != "2.0.0" {
		t.Errorf("version: got %s, want 2.0.0", cfg.Version)
	}
	if cfg.Server.Port != 3000 {
		t.Errorf("server port: got %d, want 3000", cfg.Server.Port)
	}
	if cfg.Queue.Endpoint != "http://localhost:9000/queue" {
		t.Errorf("queue endpoint: got %s", cfg.Queue.Endpoint)
	}
	if cfg.Review.Workers != 3 {
		t.Errorf("review workers: got %d, want 3", cfg.Review.Workers)
	}
	if cfg.Classifier.Model != "gemini-1.5-flash" {
		t.Errorf("classifier model: got %s, want gemini default", cfg.Classifier.Model)
	}
}

func TestLoadNoConfigFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server port: got %d, want 8080", cfg.Server.Port)
	}
	if cfg.Queue.Endpoint != "" {
		t.Errorf("queue endpoint: got %s, want empty", cfg.Queue.Endpoint)
	}
	if cfg.Classifier.Provider != config.ProviderGemini {
		t.Errorf("classifier provider: got %s, want gemini", cfg.Classifier.Provider)
	}
	if cfg.Review.Workers != 1 {
		t.Errorf("review workers: got %d, want 1", cfg.Review.Workers)
	}
	if cfg.ShutdownTimeoutDuration() != 30*time.Second {
		t.Errorf("shutdown timeout: got %v, want 30s", cfg.ShutdownTimeoutDuration())
	}
	if cfg.API.AppPath != "/app" || cfg.API.BasePath != "/api" {
		t.Errorf("paths: got %s and %s", cfg.API.AppPath, cfg.API.BasePath)
	}
}

func TestLoadInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", `[server`)
	chdir(t, dir)

	if _, err := config.Load(); err == nil {
		t.Fatal("expected parse error, got nil")
	}
}

func TestClassifierAPIKey(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		env      map[string]string
		want     string
	}{
		{
			name:     "explicit key wins",
			provider: config.ProviderGemini,
			env:      map[string]string{"LUMEN_CLASSIFIER_API_KEY": "lumen-key", "GEMINI_API_KEY": "gemini-key"},
			want:     "lumen-key",
		},
		{
			name:     "gemini fallback",
			provider: config.ProviderGemini,
			env:      map[string]string{"GEMINI_API_KEY": "gemini-key", "ANTHROPIC_API_KEY": "anthropic-key"},
			want:     "gemini-key",
		},
		{
			name:     "anthropic fallback",
			provider: config.ProviderAnthropic,
			env:      map[string]string{"GEMINI_API_KEY": "gemini-key", "ANTHROPIC_API_KEY": "anthropic-key"},
			want:     "anthropic-key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, name := range []string{"LUMEN_CLASSIFIER_API_KEY", "GEMINI_API_KEY", "ANTHROPIC_API_KEY", "LUMEN_CLASSIFIER_PROVIDER"} {
				t.Setenv(name, "")
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg := config.ClassifierConfig{Provider: tt.provider}
			if err := cfg.Finalize(); err != nil {
				t.Fatalf("finalize failed: %v", err)
			}
			if cfg.APIKey != tt.want {
				t.Errorf("api key: got %q, want %q", cfg.APIKey, tt.want)
			}
		})
	}
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"bad port", "[server]\nport = 70000\n", "invalid port"},
		{"bad idle timeout", "[server]\nidle_timeout = \"forever\"\n", "invalid idle_timeout"},
		{"bad provider", "[classifier]\nprovider = \"ollama\"\n", "unknown provider"},
		{"bad queue endpoint", "[queue]\nendpoint = \"not a url\"\n", "invalid endpoint"},
		{"bad status ttl", "[review]\nstatus_ttl = \"soon\"\n", "invalid status_ttl"},
		{"negative workers", "[review]\nworkers = -2\n", "workers must be positive"},
		{"same paths", "[api]\nbase_path = \"/app\"\n", "must differ"},
		{"bad image size", "[classifier]\nmax_image_size = \"huge\"\n", "invalid max_image_size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfig(t, dir, "config.toml", tt.content)
			chdir(t, dir)
			t.Setenv("LUMEN_CLASSIFIER_PROVIDER", "")

			_, err := config.Load()
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestMergeKeepsUnsetFields(t *testing.T) {
	base := config.Config{
		Queue:  config.QueueConfig{Endpoint: "https://queue.example.test", Timeout: "30s"},
		Review: config.ReviewConfig{Workers: 2, StatusTTL: "5s"},
	}
	overlay := config.Config{
		Queue: config.QueueConfig{Timeout: "10s"},
	}

	base.Merge(&overlay)

	if base.Queue.Endpoint != "https://queue.example.test" {
		t.Errorf("queue endpoint: got %s", base.Queue.Endpoint)
	}
	if base.Queue.Timeout != "10s" {
		t.Errorf("queue timeout: got %s, want 10s", base.Queue.Timeout)
	}
	if base.Review.Workers != 2 {
		t.Errorf("review workers: got %d, want 2", base.Review.Workers)
	}
}
