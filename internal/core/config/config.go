package config

import (
	"time"

	redisq "github.com/pawsuite/notify/internal/infra/redis"
	"github.com/pawsuite/notify/internal/infra/storage/postgres"
)

// AppConfig represents the top-level configuration.
type AppConfig struct {
	Server   ServerConfig    `yaml:"server"`
	Logging  LoggingConfig   `yaml:"logging"`
	Database postgres.Config `yaml:"database"`
	Redis    redisq.Config   `yaml:"redis"`
	Provider ProviderConfig  `yaml:"provider"`
	Retry    RetryConfig     `yaml:"retry"`
	Waitlist WaitlistConfig  `yaml:"waitlist"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// ProviderConfig holds settings for the external send capability.
// An empty endpoint selects the dev-mode log sender.
type ProviderConfig struct {
	Endpoint string        `yaml:"endpoint"`
	Timeout  time.Duration `yaml:"timeout"`
}

// RetryConfig holds the retry policy and sweep cadence.
type RetryConfig struct {
	BaseDelay    time.Duration `yaml:"base_delay"`
	MaxDelay     time.Duration `yaml:"max_delay"`
	JitterFactor float64       `yaml:"jitter_factor"`
	MaxRetries   int           `yaml:"max_retries"`
	PollInterval time.Duration `yaml:"poll_interval"`
}

// WaitlistConfig holds offer behavior and sweep cadence.
type WaitlistConfig struct {
	OfferWindow   time.Duration `yaml:"offer_window"`
	SweepInterval time.Duration `yaml:"sweep_interval"`
	ClaimBaseURL  string        `yaml:"claim_base_url"`
}
