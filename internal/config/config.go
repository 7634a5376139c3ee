// Package config loads service configuration from LISTINHA_-prefixed
// environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port           string        `envconfig:"PORT" default:"8080"`
	DBPath         string        `envconfig:"DB_PATH" default:"listinha.db"`
	LogLevel       string        `envconfig:"LOG_LEVEL" default:"info"`
	BaseOrigin     string        `envconfig:"BASE_ORIGIN" default:"http://localhost:8080"`
	SearchDebounce time.Duration `envconfig:"SEARCH_DEBOUNCE" default:"300ms"`
}

// Load reads configuration from the environment (LISTINHA_PORT, etc.).
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("listinha", &cfg); err != nil {
		return nil, fmt.Errorf("process config: %w", err)
	}
	return &cfg, nil
}
