package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Server ServerConfig
	Claude ClaudeConfig
}

type ServerConfig struct {
	Port            string        `envconfig:"SERVER_PORT" default:"8080"`
	Host            string        `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"30s"`
	WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"150s"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`
}

// ClaudeConfig describes the upstream Messages API. The API key itself is
// not part of it; see CredentialSource.
type ClaudeConfig struct {
	APIEndpoint string        `envconfig:"CLAUDE_API_ENDPOINT" default:"https://api.anthropic.com/v1/messages"`
	APIVersion  string        `envconfig:"CLAUDE_API_VERSION" default:"2023-06-01"`
	Model       string        `envconfig:"CLAUDE_MODEL" default:"claude-3-5-sonnet-20241022"`
	MaxTokens   int           `envconfig:"CLAUDE_MAX_TOKENS" default:"4096"`
	Timeout     time.Duration `envconfig:"CLAUDE_TIMEOUT" default:"120s"`
	APIKeyEnv   string        `envconfig:"CLAUDE_API_KEY_ENV" default:"ANTHROPIC_API_KEY"`
}

// LoadConfig reads envFile (if it exists) into the process environment and
// then processes the environment into a Config. Variables already set in the
// environment take precedence over the file.
func LoadConfig(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("load env file %s: %w", envFile, err)
			}
			slog.Debug("env file not found, using process environment", "path", envFile)
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.Claude.MaxTokens <= 0 {
		return nil, fmt.Errorf("CLAUDE_MAX_TOKENS must be positive, got %d", cfg.Claude.MaxTokens)
	}
	if cfg.Claude.Timeout <= 0 {
		return nil, fmt.Errorf("CLAUDE_TIMEOUT must be positive, got %s", cfg.Claude.Timeout)
	}
	slog.Info("configuration loaded successfully")
	return &cfg, nil
}
