package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config holds application configuration. Values are taken from environment
// variables with the prefix "COREKINECT". Example:
// COREKINECT_BASE_URL=https://staging.corekinect.cloud:3000 COREKINECT_LOG_LEVEL=debug .
type Config struct {
	BaseURL      string        `envconfig:"BASE_URL" default:"https://api.corekinect.cloud:3000"`
	ClientID     string        `envconfig:"CLIENT_ID"`
	ClientSecret string        `envconfig:"CLIENT_SECRET"`
	Token        string        `envconfig:"TOKEN"`
	Timeout      time.Duration `envconfig:"TIMEOUT" default:"30s"`
	LogLevel     string        `envconfig:"LOG_LEVEL" default:"info"`
}

// Load populates Config from environment variables (prefix COREKINECT).
func Load() (*Config, error) {
	var c Config
	if err := envconfig.Process("COREKINECT", &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Init initializes logging from the loaded configuration.
func (c *Config) Init() {
	InitLogger()
	SetLogLevel(c.Level())

	log.Debug().
		Str("base_url", c.BaseURL).
		Dur("timeout", c.Timeout).
		Str("log_level", c.LogLevel).
		Msg("configuration loaded")
}

// Level parses the configured log level, defaulting to info.
func (c *Config) Level() zerolog.Level {
	switch c.LogLevel {
	case "debug", "DEBUG":
		return zerolog.DebugLevel
	case "info", "INFO":
		return zerolog.InfoLevel
	case "warn", "WARN":
		return zerolog.WarnLevel
	case "error", "ERROR":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
