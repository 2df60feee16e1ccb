package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	API struct {
		// BaseURL selects the backend origin. Empty means same-origin requests
		// through the development proxy at DevProxyURL.
		BaseURL      string        `envconfig:"API_BASE_URL" default:""`
		DevProxyURL  string        `envconfig:"DEV_PROXY_URL" default:"http://localhost:5173"`
		SessionToken string        `envconfig:"SESSION_TOKEN"`
		Timeout      time.Duration `envconfig:"REQUEST_TIMEOUT" default:"0s"`
		PageSize     int           `envconfig:"PAGE_SIZE" default:"20"`
	}

	Log struct {
		Level  string `envconfig:"LOG_LEVEL" default:"info"`
		Format string `envconfig:"LOG_FORMAT" default:"text"`
		File   string `envconfig:"LOG_FILE"`
	}

	DevProxy struct {
		Port           int      `envconfig:"DEV_PROXY_PORT" default:"5173"`
		Backend        string   `envconfig:"DEV_PROXY_BACKEND" default:"http://localhost:8080"`
		AllowedOrigins []string `envconfig:"DEV_PROXY_ALLOWED_ORIGINS" default:"http://localhost:5173"`
	}
}

// Origin returns the origin every API request is sent to.
func (c *Config) Origin() string {
	if c.API.BaseURL != "" {
		return strings.TrimRight(c.API.BaseURL, "/")
	}

	return strings.TrimRight(c.API.DevProxyURL, "/")
}

// LoginOrigin is the origin the OAuth flow must start on. It bypasses the
// proxy so the state cookie lands on the same domain as the callback.
func (c *Config) LoginOrigin() string {
	if c.API.BaseURL != "" {
		return strings.TrimRight(c.API.BaseURL, "/")
	}

	return strings.TrimRight(c.DevProxy.Backend, "/")
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if cfg.API.PageSize < 1 || cfg.API.PageSize > 100 {
		return nil, fmt.Errorf("PAGE_SIZE must be between 1 and 100, got %d", cfg.API.PageSize)
	}

	return &cfg, nil
}
