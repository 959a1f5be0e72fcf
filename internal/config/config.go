// Package config loads the server configuration from YAML with environment
// overrides.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Auth       AuthConfig       `yaml:"auth"`
	Generation GenerationConfig `yaml:"generation"`
	Chat       ChatConfig       `yaml:"chat"`
	Contact    ContactConfig    `yaml:"contact"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
}

type ServerConfig struct {
	Host         string `yaml:"host"`
	Port         int    `yaml:"port"`
	PathPrefix   string `yaml:"path_prefix"`
	SecureCookie bool   `yaml:"secure_cookie"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type AuthConfig struct {
	SessionDuration string `yaml:"session_duration"`
	BcryptCost      int    `yaml:"bcrypt_cost"`
}

// GenerationConfig configures the upstream text-generation endpoint. APIKey
// is normally supplied through GEMINI_API_KEY rather than the file.
type GenerationConfig struct {
	APIKey           string `yaml:"api_key"`
	BaseURL          string `yaml:"base_url"`
	Model            string `yaml:"model"`
	Timeout          string `yaml:"timeout"`
	StructuredOutput *bool  `yaml:"structured_output"`
	MaxResponseBytes int64  `yaml:"max_response_bytes"`
}

type ChatConfig struct {
	MinReplyDelay string `yaml:"min_reply_delay"`
	MaxReplyDelay string `yaml:"max_reply_delay"`
}

type ContactConfig struct {
	CompletionDelay string `yaml:"completion_delay"`
}

// RateLimitConfig holds per-client request budgets per minute.
type RateLimitConfig struct {
	GeneratePerMinute int `yaml:"generate_per_minute"`
	LeadsPerMinute    int `yaml:"leads_per_minute"`
}

// TelemetryConfig enables trace export. Tracing stays off while Endpoint is
// empty.
type TelemetryConfig struct {
	Endpoint    string `yaml:"endpoint"`
	ServiceName string `yaml:"service_name"`
}

func (c *TelemetryConfig) Enabled() bool {
	return c.Endpoint != ""
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return fallback
	}
	return d
}

func (c *AuthConfig) GetSessionDuration() time.Duration {
	return parseDuration(c.SessionDuration, 24*time.Hour)
}

func (c *GenerationConfig) GetTimeout() time.Duration {
	return parseDuration(c.Timeout, 60*time.Second)
}

// UseStructuredOutput reports whether JSON output is requested from the
// endpoint. It defaults to true.
func (c *GenerationConfig) UseStructuredOutput() bool {
	return c.StructuredOutput == nil || *c.StructuredOutput
}

func (c *ChatConfig) GetMinReplyDelay() time.Duration {
	return parseDuration(c.MinReplyDelay, 800*time.Millisecond)
}

func (c *ChatConfig) GetMaxReplyDelay() time.Duration {
	return parseDuration(c.MaxReplyDelay, 1500*time.Millisecond)
}

func (c *ContactConfig) GetCompletionDelay() time.Duration {
	return parseDuration(c.CompletionDelay, 2*time.Second)
}

// Load reads the YAML file at path, applies environment overrides and fills
// defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	applyEnv(&cfg)
	setDefaults(&cfg)

	return &cfg, nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	var cfg Config
	applyEnv(&cfg)
	setDefaults(&cfg)
	return &cfg
}

// LoadDotEnv loads variables from the given .env files into the process
// environment. Missing files are ignored and existing variables win.
func LoadDotEnv(files ...string) {
	for _, f := range files {
		_ = godotenv.Load(f)
	}
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.Generation.APIKey = v
	}
	if v := os.Getenv("GEMINI_MODEL"); v != "" {
		cfg.Generation.Model = v
	}
	if v := os.Getenv("APRICODI_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); v != "" {
		cfg.Telemetry.Endpoint = v
	}
	if v := os.Getenv("OTEL_SERVICE_NAME"); v != "" {
		cfg.Telemetry.ServiceName = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
}

func setDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "./data/builder.db"
	}
	if cfg.Auth.SessionDuration == "" {
		cfg.Auth.SessionDuration = "24h"
	}
	if cfg.Auth.BcryptCost == 0 {
		cfg.Auth.BcryptCost = 12
	}
	if cfg.Generation.BaseURL == "" {
		cfg.Generation.BaseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	if cfg.Generation.Model == "" {
		cfg.Generation.Model = "gemini-3-flash-preview"
	}
	if cfg.Generation.Timeout == "" {
		cfg.Generation.Timeout = "60s"
	}
	if cfg.Generation.MaxResponseBytes == 0 {
		cfg.Generation.MaxResponseBytes = 4 << 20
	}
	if cfg.Chat.MinReplyDelay == "" {
		cfg.Chat.MinReplyDelay = "800ms"
	}
	if cfg.Chat.MaxReplyDelay == "" {
		cfg.Chat.MaxReplyDelay = "1500ms"
	}
	if cfg.Contact.CompletionDelay == "" {
		cfg.Contact.CompletionDelay = "2s"
	}
	if cfg.RateLimit.GeneratePerMinute == 0 {
		cfg.RateLimit.GeneratePerMinute = 10
	}
	if cfg.RateLimit.LeadsPerMinute == 0 {
		cfg.RateLimit.LeadsPerMinute = 5
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = "apricodi-builder"
	}
}
