package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// loadFromEnv applies TADA_* variables on top of file values.
func loadFromEnv(cfg *Config) error {
	if v := firstEnv("TADA_API_URL", "TODO_API_URL"); v != "" {
		cfg.APIURL = v
	}
	if v := os.Getenv("TADA_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("TADA_TIMEOUT: %w", err)
		}
		cfg.Timeout = Duration{d}
	}
	if v := os.Getenv("TADA_THEME"); v != "" {
		cfg.Theme = v
	}
	if v := os.Getenv("TADA_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	if v := os.Getenv("TADA_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("TADA_ADDR"); v != "" {
		cfg.Addr = v
	}
	if os.Getenv("NO_COLOR") != "" {
		cfg.DisableColor = true
	}
	return nil
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
	}
	return ""
}
