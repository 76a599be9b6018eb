package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

// Load reads configuration from a YAML file.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg AppConfig
	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Set defaults if necessary
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Provider.Timeout == 0 {
		cfg.Provider.Timeout = 10 * time.Second
	}
	if cfg.Retry.BaseDelay == 0 {
		cfg.Retry.BaseDelay = 30 * time.Second
	}
	if cfg.Retry.MaxDelay == 0 {
		cfg.Retry.MaxDelay = time.Hour
	}
	if cfg.Retry.JitterFactor == 0 {
		cfg.Retry.JitterFactor = 0.3
	}
	if cfg.Retry.MaxRetries == 0 {
		cfg.Retry.MaxRetries = 5
	}
	if cfg.Retry.PollInterval == 0 {
		cfg.Retry.PollInterval = 30 * time.Second
	}
	if cfg.Waitlist.OfferWindow == 0 {
		cfg.Waitlist.OfferWindow = 2 * time.Hour
	}
	if cfg.Waitlist.SweepInterval == 0 {
		cfg.Waitlist.SweepInterval = time.Minute
	}

	return &cfg, nil
}
