// Package config loads runtime configuration for the ExamKeeper CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected via -c or -config. JSON by default,
//     YAML when the file ends in .yaml or .yml.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// # File schema
//
// Durations use timex.Duration, so values can be strings like "3s" or
// integer nanoseconds:
//
//	{
//	  "mode": "api",
//	  "api_base_url": "http://127.0.0.1:8080",
//	  "api_timeout": "30s",
//	  "api_retry_attempts": 2,
//	  "api_token": "...",
//	  "health_addr": "127.0.0.1:50051",
//	  "online_check_interval": "3s",
//	  "max_upload_mb": 15,
//	  "locale": "pt-BR",
//	  "db_path": "examkeeper_data/examkeeper.db",
//	  "analytics_enabled": false
//	}
package config
