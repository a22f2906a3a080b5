// Package config resolves client settings from defaults, TOML files,
// environment variables and command-line flags.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultAPIURL   = "http://localhost:8000/api/v1"
	DefaultTimeout  = 10 * time.Second
	DefaultTheme    = "classic"
	DefaultLogLevel = "info"
	DefaultAddr     = ":8000"
)

// Config holds everything the CLI, TUI and reference server need.
type Config struct {
	APIURL   string   `toml:"api_url"`
	Timeout  Duration `toml:"timeout"`
	Theme    string   `toml:"theme"`
	LogFile  string   `toml:"log_file"`
	LogLevel string   `toml:"log_level"`

	// Addr is where `serve` listens.
	Addr string `toml:"addr"`

	// Output tweaks; flags only.
	Group        bool `toml:"-"`
	ForceColor   bool `toml:"-"`
	DisableColor bool `toml:"-"`

	// File is the config file that was applied last, if any.
	File string `toml:"-"`
}

// Duration lets TOML carry values like "10s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func setDefaults(cfg *Config) {
	cfg.APIURL = DefaultAPIURL
	cfg.Timeout = Duration{DefaultTimeout}
	cfg.Theme = DefaultTheme
	cfg.LogLevel = DefaultLogLevel
	cfg.Addr = DefaultAddr
}

// finalizeConfig normalizes and validates the merged values.
func finalizeConfig(cfg *Config) error {
	cfg.APIURL = strings.TrimRight(strings.TrimSpace(cfg.APIURL), "/")
	u, err := url.Parse(cfg.APIURL)
	if err != nil {
		return fmt.Errorf("api url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("api url must be an absolute http(s) URL, got %q", cfg.APIURL)
	}

	if cfg.Timeout.Duration <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", cfg.Timeout)
	}

	cfg.Theme = strings.ToLower(strings.TrimSpace(cfg.Theme))
	switch cfg.Theme {
	case "classic", "neon", "mono":
	default:
		return fmt.Errorf("unknown theme %q (want classic, neon or mono)", cfg.Theme)
	}

	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", cfg.LogLevel)
	}
	return nil
}
