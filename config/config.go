package config

import (
	"errors"
	"fmt"
	"time"
)

// Errors
var (
	ErrMissingCredentials = errors.New("WEBFLEET_USERNAME and WEBFLEET_PASSWORD are required")
)

// Config contains all configuration variables of the application
type (
	Config struct {
		API      APIConfig
		Webfleet WebfleetConfig
		Logging  LoggingConfig
	}

	APIConfig struct {
		Port string `env:"API_PORT" default:"8080"`
		// Key authenticates every endpoint except /health. When empty,
		// a random key is generated at startup and logged once.
		Key     string `env:"API_KEY"`
		DataDir string `env:"DATA_DIR" default:"/app/data"`
	}

	WebfleetConfig struct {
		Username string `env:"WEBFLEET_USERNAME"`
		Password string `env:"WEBFLEET_PASSWORD"`
		Account  string `env:"WEBFLEET_ACCOUNT"`

		URL string `env:"WEBFLEET_URL" default:"https://live-wf.webfleet.com/web/map"`

		// RefreshInterval is the sleep between two poll cycles.
		RefreshInterval time.Duration `env:"CACHE_DURATION" default:"60s"`

		NavigationTimeout time.Duration `env:"WEBFLEET_NAVIGATION_TIMEOUT" default:"60s"`
		ReloadTimeout     time.Duration `env:"WEBFLEET_RELOAD_TIMEOUT" default:"30s"`
		RetryDelay        time.Duration `env:"WEBFLEET_RETRY_DELAY" default:"30s"`
	}

	LoggingConfig struct {
		Level string `env:"LOG_LEVEL" default:"INFO"`
	}
)

// Addr returns the listen address of the HTTP API.
func (c APIConfig) Addr() string {
	return fmt.Sprintf("0.0.0.0:%s", c.Port)
}

func NewConfig() (*Config, error) {
	cfg := &Config{}

	// Parsing environment variables into the config struct.
	if err := parseEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Webfleet.Username == "" || c.Webfleet.Password == "" {
		return ErrMissingCredentials
	}
	return nil
}
