package config

import (
	"fmt"
	"time"
)

const (
	ModeMock = "mock"
	ModeAPI  = "api"
)

// Config holds runtime settings for the ExamKeeper CLI.
//
// Units: APITimeout and OnlineCheckInterval are time.Duration values;
// MaxUploadMB is in mebibytes (1 MB = 1024*1024 bytes).
type Config struct {
	Mode string

	APIBaseURL       string
	APITimeout       time.Duration
	APIRetryAttempts int
	APIToken         string

	HealthAddr          string
	OnlineCheckInterval time.Duration

	MaxUploadMB int
	Locale      string
	DBPath      string

	AnalyticsEnabled bool
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.Mode = ModeMock
	c.APIBaseURL = "http://127.0.0.1:8080"
	c.APITimeout = 30 * time.Second
	c.APIRetryAttempts = 2
	c.HealthAddr = "127.0.0.1:50051"
	c.OnlineCheckInterval = 3 * time.Second
	c.MaxUploadMB = 15
	c.DBPath = "examkeeper_data/examkeeper.db"
}

// Validate reports settings the client cannot run with.
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeMock, ModeAPI:
	default:
		return fmt.Errorf("unknown mode %q (want %q or %q)", c.Mode, ModeMock, ModeAPI)
	}
	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("max_upload_mb must be positive, got %d", c.MaxUploadMB)
	}
	if c.OnlineCheckInterval <= 0 {
		return fmt.Errorf("online_check_interval must be positive, got %s", c.OnlineCheckInterval)
	}
	if c.APIRetryAttempts < 0 {
		return fmt.Errorf("api_retry_attempts must not be negative, got %d", c.APIRetryAttempts)
	}
	return nil
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// a config file (if present) and command-line flags (if present). Later
// sources take precedence over earlier ones. Invalid settings panic.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseFile(cfg)
	parseFlags(cfg)
	if err := cfg.Validate(); err != nil {
		panic(err)
	}
	return cfg
}
