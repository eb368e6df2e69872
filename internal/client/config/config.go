// Package config holds the CLI client configuration: defaults, an optional
// JSON file and command-line flags, applied in that order.
package config

import (
	"os"
	"time"
)

// Config holds runtime settings for the realestate CLI.
//
// Fields:
//   - ServerURL: base URL of the REST API including its base path.
//   - StateDir: directory holding the local session database.
//   - SessionValidity: how long a persisted session is trusted on restart.
//   - RequestTimeout: deadline for a single API call.
//   - UploadTimeout: deadline for one image upload.
//   - OAuthTimeout: deadline for the identity-provider step.
type Config struct {
	ServerURL       string
	StateDir        string
	SessionValidity time.Duration
	RequestTimeout  time.Duration
	UploadTimeout   time.Duration
	OAuthTimeout    time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:5000/api"
	c.StateDir = ".realestate"
	c.SessionValidity = 30 * 24 * time.Hour
	c.RequestTimeout = 30 * time.Second
	c.UploadTimeout = 2 * time.Minute
	c.OAuthTimeout = 2 * time.Minute
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	args := os.Args[1:]

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, args)
	parseFlags(cfg, args)
	return cfg
}
