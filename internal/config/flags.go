package config

import (
	"flag"
)

// parseFlags registers the root flags on fs, parses args and copies any
// flag the user actually set into cfg.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string) ([]string, error) {
	if fs == nil {
		return args, nil
	}

	apiURL := fs.String("api", cfg.APIURL, "base URL of the todo API")
	timeout := fs.Duration("timeout", cfg.Timeout.Duration, "per-request timeout")
	theme := fs.String("theme", cfg.Theme, "output theme: classic, neon or mono")
	logFile := fs.String("log-file", cfg.LogFile, "write logs to this file")
	debug := fs.Bool("debug", false, "log at debug level")
	group := fs.Bool("group", false, "group output by pending/done")
	color := fs.Bool("color", false, "force colored output")
	noColor := fs.Bool("no-color", cfg.DisableColor, "disable colored output")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg.APIURL = *apiURL
	cfg.Timeout = Duration{*timeout}
	cfg.Theme = *theme
	cfg.LogFile = *logFile
	if *debug {
		cfg.LogLevel = "debug"
	}
	cfg.Group = *group
	cfg.ForceColor = *color
	cfg.DisableColor = *noColor
	return fs.Args(), nil
}
