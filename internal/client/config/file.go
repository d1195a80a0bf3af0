package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dmitrijs2005/examkeeper/internal/flagx"
	"github.com/dmitrijs2005/examkeeper/internal/timex"
)

// FileConfig is a DTO used exclusively for file unmarshalling. Absent keys
// stay nil and leave the current value alone.
type FileConfig struct {
	Mode                *string         `json:"mode" yaml:"mode"`
	APIBaseURL          *string         `json:"api_base_url" yaml:"api_base_url"`
	APITimeout          *timex.Duration `json:"api_timeout" yaml:"api_timeout"`
	APIRetryAttempts    *int            `json:"api_retry_attempts" yaml:"api_retry_attempts"`
	APIToken            *string         `json:"api_token" yaml:"api_token"`
	HealthAddr          *string         `json:"health_addr" yaml:"health_addr"`
	OnlineCheckInterval *timex.Duration `json:"online_check_interval" yaml:"online_check_interval"`
	MaxUploadMB         *int            `json:"max_upload_mb" yaml:"max_upload_mb"`
	Locale              *string         `json:"locale" yaml:"locale"`
	DBPath              *string         `json:"db_path" yaml:"db_path"`
	AnalyticsEnabled    *bool           `json:"analytics_enabled" yaml:"analytics_enabled"`
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// parseFile overlays Config with values loaded from the file given by -c or
// -config. JSON is assumed unless the extension is .yaml or .yml.
// Panics on read or unmarshal errors.
func parseFile(cfg *Config) {
	path := flagx.ConfigPath()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var fc FileConfig
	if isYAML(path) {
		err = yaml.Unmarshal(data, &fc)
	} else {
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		panic(err)
	}

	fc.apply(cfg)
}

func (fc *FileConfig) apply(cfg *Config) {
	setIf(&cfg.Mode, fc.Mode)
	setIf(&cfg.APIBaseURL, fc.APIBaseURL)
	setIf(&cfg.APIRetryAttempts, fc.APIRetryAttempts)
	setIf(&cfg.APIToken, fc.APIToken)
	setIf(&cfg.HealthAddr, fc.HealthAddr)
	setIf(&cfg.MaxUploadMB, fc.MaxUploadMB)
	setIf(&cfg.Locale, fc.Locale)
	setIf(&cfg.DBPath, fc.DBPath)
	setIf(&cfg.AnalyticsEnabled, fc.AnalyticsEnabled)
	if fc.APITimeout != nil {
		cfg.APITimeout = fc.APITimeout.Duration
	}
	if fc.OnlineCheckInterval != nil {
		cfg.OnlineCheckInterval = fc.OnlineCheckInterval.Duration
	}
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
