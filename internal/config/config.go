// Package config is the system-wide settings coordinator: defaults, YAML file
// loading and environment overrides, with validation before anything starts.
package config

import (
	"fmt"
	"time"
)

// Config is the full runtime configuration.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	Log     LogConfig     `yaml:"log"`
	Session SessionConfig `yaml:"session"`
}

// HTTPConfig controls the management API listener.
type HTTPConfig struct {
	Host            string        `yaml:"host" env:"CODELAB_HTTP_HOST"`
	Port            int           `yaml:"port" env:"CODELAB_HTTP_PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"CODELAB_HTTP_READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"CODELAB_HTTP_WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"CODELAB_HTTP_SHUTDOWN_TIMEOUT"`
}

// LogConfig controls structured logging output.
type LogConfig struct {
	Level  string `yaml:"level" env:"CODELAB_LOG_LEVEL"`
	Format string `yaml:"format" env:"CODELAB_LOG_FORMAT"`
	Output string `yaml:"output" env:"CODELAB_LOG_OUTPUT"`
}

// SessionConfig bounds the session registry. Zero disables a limit.
type SessionConfig struct {
	MaxSessionsPerUser   int  `yaml:"max_sessions_per_user" env:"CODELAB_SESSION_MAX_PER_USER"`
	MaxParticipantsLimit int  `yaml:"max_participants_limit" env:"CODELAB_SESSION_MAX_PARTICIPANTS"`
	SeedTemplates        bool `yaml:"seed_templates" env:"CODELAB_SESSION_SEED_TEMPLATES"`
}

// DefaultConfig returns production-ready defaults.
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
		Session: SessionConfig{
			MaxSessionsPerUser:   0,
			MaxParticipantsLimit: 100,
			SeedTemplates:        true,
		},
	}
}

// Validate rejects configurations that cannot run.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("HTTP port must be between 1 and 65535")
	}
	if c.HTTP.Host == "" {
		return fmt.Errorf("HTTP host cannot be empty")
	}
	if c.HTTP.ReadTimeout <= 0 {
		return fmt.Errorf("HTTP read timeout must be positive")
	}
	if c.HTTP.WriteTimeout <= 0 {
		return fmt.Errorf("HTTP write timeout must be positive")
	}
	if c.HTTP.ShutdownTimeout <= 0 {
		return fmt.Errorf("HTTP shutdown timeout must be positive")
	}
	if c.Session.MaxSessionsPerUser < 0 {
		return fmt.Errorf("max sessions per user cannot be negative")
	}
	if c.Session.MaxParticipantsLimit < 0 {
		return fmt.Errorf("max participants limit cannot be negative")
	}
	return nil
}
