// Package config loads dogdiet configuration from YAML, .env files and the
// environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the complete dogdiet configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Auth     AuthConfig     `yaml:"auth"`
	Telegram TelegramConfig `yaml:"telegram"`
	Logging  LoggingConfig  `yaml:"logging"`
	Intake   IntakeConfig   `yaml:"intake"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	// MetricsEnabled mounts /metrics on the API listener.
	MetricsEnabled bool `yaml:"metrics_enabled"`
}

// AuthConfig configures HTTP API authentication. Both methods are optional;
// with neither set the API is open.
type AuthConfig struct {
	// TokenHash is a bcrypt hash of the static API token (see `dogdiet hash-token`).
	TokenHash    string `yaml:"token_hash"`
	OIDCIssuer   string `yaml:"oidc_issuer"`
	OIDCClientID string `yaml:"oidc_client_id"`
}

// TelegramConfig configures the chat bot.
type TelegramConfig struct {
	BotToken      string        `yaml:"bot_token"`
	Debug         bool          `yaml:"debug"`
	PollTimeout   int           `yaml:"poll_timeout"`
	SweepInterval time.Duration `yaml:"sweep_interval"`
}

// LoggingConfig configures the slog handler.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// IntakeConfig configures the interactive intake conversation.
type IntakeConfig struct {
	DraftTTL time.Duration `yaml:"draft_ttl"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 15 * time.Second,
			MetricsEnabled:  true,
		},
		Telegram: TelegramConfig{
			PollTimeout:   60,
			SweepInterval: 5 * time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Intake: IntakeConfig{
			DraftTTL: 30 * time.Minute,
		},
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 || c.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("server timeouts must not be negative")
	}
	if (c.Auth.OIDCIssuer == "") != (c.Auth.OIDCClientID == "") {
		return fmt.Errorf("auth.oidc_issuer and auth.oidc_client_id must be set together")
	}
	if c.Auth.TokenHash != "" && !strings.HasPrefix(c.Auth.TokenHash, "$2") {
		return fmt.Errorf("auth.token_hash must be a bcrypt hash")
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error")
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json")
	}
	if c.Telegram.PollTimeout < 0 {
		return fmt.Errorf("telegram.poll_timeout must not be negative")
	}
	if c.Intake.DraftTTL <= 0 {
		return fmt.Errorf("intake.draft_ttl must be > 0")
	}
	return nil
}

// Load builds a Config from defaults, an optional YAML file, an optional .env
// file and environment overrides. ${VAR} references in the YAML file are
// expanded before parsing.
func Load(path, envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Server.Addr = env("ADDR", c.Server.Addr)
	c.Logging.Level = env("LOG_LEVEL", c.Logging.Level)
	c.Telegram.BotToken = env("TELEGRAM_BOT_TOKEN", c.Telegram.BotToken)
	c.Auth.TokenHash = env("API_TOKEN_HASH", c.Auth.TokenHash)
	c.Auth.OIDCIssuer = env("OIDC_ISSUER", c.Auth.OIDCIssuer)
	c.Auth.OIDCClientID = env("OIDC_CLIENT_ID", c.Auth.OIDCClientID)
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
