// Package config loads runtime configuration for the Globetrotter CLI.
//
// Sources, later ones winning:
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. Command-line flags.
//
// Supported flags
//
//	-a string   base URL of the Globetrotter API
//	-d string   path of the local SQLite session database
//	-t int      request timeout (seconds)
//	-l string   log level
//
// JSON example:
//
//	{
//	  "server_url": "http://127.0.0.1:8080",
//	  "db_path": "globetrotter.db",
//	  "request_timeout": "10s",
//	  "log_level": "warn"
//	}
package config

import "time"

// Config holds runtime settings for the CLI.
type Config struct {
	ServerURL      string
	DBPath         string
	RequestTimeout time.Duration
	LogLevel       string
}

// LoadDefaults populates c with local development defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.DBPath = "globetrotter.db"
	c.RequestTimeout = 10 * time.Second
	c.LogLevel = "warn"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
