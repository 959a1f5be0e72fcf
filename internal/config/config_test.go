package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func clearEnv(t *testing.T) {
	for _, k := range []string{"GEMINI_API_KEY", "GEMINI_MODEL", "APRICODI_DB_PATH", "PORT", "OTEL_EXPORTER_OTLP_ENDPOINT", "OTEL_SERVICE_NAME"} {
		t.Setenv(k, "")
	}
}

func TestLoad_ValidConfig(t *testing.T) {
	clearEnv(t)
	configPath := writeConfig(t, `
server:
  host: "127.0.0.1"
  port: 9090
  path_prefix: "/builder"
  secure_cookie: true

database:
  path: "/data/test.db"

auth:
  session_duration: "12h"
  bcrypt_cost: 10

generation:
  api_key: "file-key"
  model: "gemini-test"
  timeout: "15s"
  structured_output: false
  max_response_bytes: 1024

chat:
  min_reply_delay: "10ms"
  max_reply_delay: "20ms"

contact:
  completion_delay: "1s"

rate_limit:
  generate_per_minute: 3
  leads_per_minute: 2
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("expected host '127.0.0.1', got '%s'", cfg.Server.Host)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Server.PathPrefix != "/builder" {
		t.Errorf("expected path_prefix '/builder', got '%s'", cfg.Server.PathPrefix)
	}
	if !cfg.Server.SecureCookie {
		t.Error("expected secure_cookie to be true")
	}
	if cfg.Database.Path != "/data/test.db" {
		t.Errorf("expected database path '/data/test.db', got '%s'", cfg.Database.Path)
	}
	if cfg.Auth.GetSessionDuration() != 12*time.Hour {
		t.Errorf("expected session duration 12h, got %v", cfg.Auth.GetSessionDuration())
	}
	if cfg.Auth.BcryptCost != 10 {
		t.Errorf("expected bcrypt_cost 10, got %d", cfg.Auth.BcryptCost)
	}

	gen := cfg.Generation
	if gen.APIKey != "file-key" || gen.Model != "gemini-test" {
		t.Errorf("unexpected generation config %+v", gen)
	}
	if gen.GetTimeout() != 15*time.Second {
		t.Errorf("expected timeout 15s, got %v", gen.GetTimeout())
	}
	if gen.UseStructuredOutput() {
		t.Error("expected structured output to be disabled")
	}
	if gen.MaxResponseBytes != 1024 {
		t.Errorf("expected max_response_bytes 1024, got %d", gen.MaxResponseBytes)
	}

	if cfg.Chat.GetMinReplyDelay() != 10*time.Millisecond || cfg.Chat.GetMaxReplyDelay() != 20*time.Millisecond {
		t.Errorf("unexpected chat delays %+v", cfg.Chat)
	}
	if cfg.Contact.GetCompletionDelay() != time.Second {
		t.Errorf("expected completion delay 1s, got %v", cfg.Contact.GetCompletionDelay())
	}
	if cfg.RateLimit.GeneratePerMinute != 3 || cfg.RateLimit.LeadsPerMinute != 2 {
		t.Errorf("unexpected rate limits %+v", cfg.RateLimit)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(writeConfig(t, "{}"))
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("expected default host '0.0.0.0', got '%s'", cfg.Server.Host)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Server.PathPrefix != "" {
		t.Errorf("expected empty default path_prefix, got '%s'", cfg.Server.PathPrefix)
	}
	if cfg.Database.Path != "./data/builder.db" {
		t.Errorf("expected default database path, got '%s'", cfg.Database.Path)
	}
	if cfg.Auth.BcryptCost != 12 {
		t.Errorf("expected default bcrypt_cost 12, got %d", cfg.Auth.BcryptCost)
	}
	if cfg.Generation.BaseURL != "https://generativelanguage.googleapis.com/v1beta" {
		t.Errorf("unexpected default base url %q", cfg.Generation.BaseURL)
	}
	if cfg.Generation.Model != "gemini-3-flash-preview" {
		t.Errorf("unexpected default model %q", cfg.Generation.Model)
	}
	if cfg.Generation.APIKey != "" {
		t.Error("expected no default api key")
	}
	if !cfg.Generation.UseStructuredOutput() {
		t.Error("expected structured output by default")
	}
	if cfg.Chat.GetMinReplyDelay() != 800*time.Millisecond || cfg.Chat.GetMaxReplyDelay() != 1500*time.Millisecond {
		t.Errorf("unexpected default chat delays %+v", cfg.Chat)
	}
	if cfg.Contact.GetCompletionDelay() != 2*time.Second {
		t.Errorf("expected default completion delay 2s, got %v", cfg.Contact.GetCompletionDelay())
	}
	if cfg.RateLimit.GeneratePerMinute != 10 || cfg.RateLimit.LeadsPerMinute != 5 {
		t.Errorf("unexpected default rate limits %+v", cfg.RateLimit)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "env-key")
	t.Setenv("GEMINI_MODEL", "env-model")
	t.Setenv("APRICODI_DB_PATH", "/tmp/env.db")
	t.Setenv("PORT", "3000")

	cfg, err := Load(writeConfig(t, `
generation:
  api_key: "file-key"
server:
  port: 9090
`))
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Generation.APIKey != "env-key" {
		t.Errorf("expected env api key, got %q", cfg.Generation.APIKey)
	}
	if cfg.Generation.Model != "env-model" {
		t.Errorf("expected env model, got %q", cfg.Generation.Model)
	}
	if cfg.Database.Path != "/tmp/env.db" {
		t.Errorf("expected env db path, got %q", cfg.Database.Path)
	}
	if cfg.Server.Port != 3000 {
		t.Errorf("expected env port 3000, got %d", cfg.Server.Port)
	}
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("GEMINI_MODEL=dotenv-model\n"), 0644); err != nil {
		t.Fatalf("failed to write .env: %v", err)
	}
	// godotenv does not overwrite variables that are already set, and
	// clearEnv set them to "", so unset the one under test.
	if err := os.Unsetenv("GEMINI_MODEL"); err != nil {
		t.Fatalf("unsetenv: %v", err)
	}

	LoadDotEnv(filepath.Join(t.TempDir(), "missing.env"), path)
	defer os.Unsetenv("GEMINI_MODEL")

	if cfg := Default(); cfg.Generation.Model != "dotenv-model" {
		t.Errorf("expected model from .env, got %q", cfg.Generation.Model)
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	if _, err := Load("/nonexistent/path/config.yaml"); err == nil {
		t.Error("expected error for non-existent config file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	if _, err := Load(writeConfig(t, "invalid: yaml: content: [")); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestAuthConfig_GetSessionDuration(t *testing.T) {
	cfg := &AuthConfig{}
	if cfg.GetSessionDuration() != 24*time.Hour {
		t.Errorf("expected default session duration 24h, got %v", cfg.GetSessionDuration())
	}

	cfg.SessionDuration = "12h"
	if cfg.GetSessionDuration() != 12*time.Hour {
		t.Errorf("expected session duration 12h, got %v", cfg.GetSessionDuration())
	}

	cfg.SessionDuration = "invalid"
	if cfg.GetSessionDuration() != 24*time.Hour {
		t.Errorf("expected default session duration for invalid input, got %v", cfg.GetSessionDuration())
	}
}

func TestLoad_Telemetry(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
telemetry:
  endpoint: "http://collector:4318"
  service_name: "builder-test"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if !cfg.Telemetry.Enabled() || cfg.Telemetry.Endpoint != "http://collector:4318" {
		t.Errorf("expected telemetry endpoint from file, got %q", cfg.Telemetry.Endpoint)
	}
	if cfg.Telemetry.ServiceName != "builder-test" {
		t.Errorf("expected service name 'builder-test', got %q", cfg.Telemetry.ServiceName)
	}

	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "http://localhost:4318")
	cfg, err = Load(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Telemetry.Endpoint != "http://localhost:4318" {
		t.Errorf("expected env endpoint to win, got %q", cfg.Telemetry.Endpoint)
	}
}

func TestDefault_TelemetryDisabled(t *testing.T) {
	clearEnv(t)
	cfg := Default()
	if cfg.Telemetry.Enabled() {
		t.Errorf("expected telemetry disabled, got endpoint %q", cfg.Telemetry.Endpoint)
	}
	if cfg.Telemetry.ServiceName != "apricodi-builder" {
		t.Errorf("expected default service name, got %q", cfg.Telemetry.ServiceName)
	}
}
