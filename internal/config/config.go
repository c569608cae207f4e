package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Server ServerConfig
	Model  ModelConfig
	CORS   CORSConfig
	Log    LogConfig
}

type ServerConfig struct {
	Port            string        `envconfig:"SERVER_PORT" default:"8000"`
	Host            string        `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"30s"`
	WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`
	// MaxBodyBytes caps prediction request bodies; 0 disables the limit
	MaxBodyBytes int64 `envconfig:"SERVER_MAX_BODY_BYTES" default:"1048576"`
}

type ModelConfig struct {
	// Variant selects the input schema: "wind" or "yield"
	Variant string `envconfig:"MODEL_VARIANT" default:"wind"`
	// Backend is "local" (artifact on disk) or "remote" (HTTP scoring endpoint)
	Backend       string        `envconfig:"MODEL_BACKEND" default:"local"`
	Path          string        `envconfig:"MODEL_PATH"`
	EncoderPath   string        `envconfig:"MODEL_ENCODER_PATH" default:"label_encoder.json"`
	RemoteURL     string        `envconfig:"MODEL_REMOTE_URL"`
	RemoteTimeout time.Duration `envconfig:"MODEL_REMOTE_TIMEOUT" default:"10s"`
	// RoundDecimals rounds predictions when >= 0; negative leaves them untouched
	RoundDecimals int `envconfig:"MODEL_ROUND_DECIMALS" default:"-1"`
}

type CORSConfig struct {
	AllowedOrigins   []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	AllowCredentials bool     `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
}

type LogConfig struct {
	Level      string `envconfig:"LOG_LEVEL" default:"info"`
	Format     string `envconfig:"LOG_FORMAT" default:"text"`
	File       string `envconfig:"LOG_FILE"`
	MaxSizeMB  int    `envconfig:"LOG_MAX_SIZE_MB" default:"100"`
	MaxBackups int    `envconfig:"LOG_MAX_BACKUPS" default:"3"`
	MaxAgeDays int    `envconfig:"LOG_MAX_AGE_DAYS" default:"28"`
}

var defaultModelPaths = map[string]string{
	"wind":  "best_timeseries_model.json",
	"yield": "yield_model.json",
}

// LoadConfig reads an optional .env file from the working directory and
// then the process environment.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return nil, err
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	slog.Info("configuration loaded successfully")
	return &cfg, nil
}

func (c *Config) normalize() error {
	c.Model.Variant = strings.ToLower(strings.TrimSpace(c.Model.Variant))
	c.Model.Backend = strings.ToLower(strings.TrimSpace(c.Model.Backend))

	defaultPath, ok := defaultModelPaths[c.Model.Variant]
	if !ok {
		return fmt.Errorf("unknown model variant %q (want wind or yield)", c.Model.Variant)
	}

	switch c.Model.Backend {
	case "local":
		if c.Model.Path == "" {
			c.Model.Path = defaultPath
		}
	case "remote":
		if c.Model.RemoteURL == "" {
			return fmt.Errorf("MODEL_REMOTE_URL is required for the remote backend")
		}
	default:
		return fmt.Errorf("unknown model backend %q (want local or remote)", c.Model.Backend)
	}

	if c.Model.RoundDecimals > 15 {
		return fmt.Errorf("MODEL_ROUND_DECIMALS must be at most 15, got %d", c.Model.RoundDecimals)
	}

	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q (want text or json)", c.Log.Format)
	}
	return nil
}

// UsesEncoder reports whether the variant ships a label encoder artifact.
func (m ModelConfig) UsesEncoder() bool {
	return m.Variant == "wind"
}
