package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/Makepad-fr/tada/internal/api"
	"github.com/Makepad-fr/tada/internal/config"
	"github.com/Makepad-fr/tada/internal/logging"
	"github.com/Makepad-fr/tada/internal/server"
	"github.com/Makepad-fr/tada/internal/tui"
	"github.com/Makepad-fr/tada/internal/ui"
)

// Version is stamped at build time with -ldflags "-X ...cli.Version=...".
var Version = "dev"

// Main loads configuration, wires the client and runs the requested
// subcommand. It returns the process exit code.
func Main(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("tada", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { PrintHelp(stderr) }

	cfg, rest, err := config.Load(fs, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(stderr, "✖ "+err.Error())
		return 2
	}

	printer := ui.NewPrinter(stdout, stderr, ui.Options{
		Theme:        cfg.Theme,
		ForceColor:   cfg.ForceColor,
		DisableColor: cfg.DisableColor,
	})

	// The TUI owns the terminal; only serve logs to stderr by default.
	logOpts := logging.Options{Level: cfg.LogLevel, File: cfg.LogFile}
	if len(rest) > 0 && rest[0] == "serve" && cfg.LogFile == "" {
		logOpts.Output = stderr
		logOpts.ReportTimestamp = true
	}
	logger, err := logging.New(logOpts)
	if err != nil {
		printer.Fail(err.Error())
		return 1
	}
	defer logger.Close()

	client, err := api.New(cfg.APIURL,
		api.WithTimeout(cfg.Timeout.Duration),
		api.WithLogger(logger.Logger),
		api.WithUserAgent("tada/"+Version),
	)
	if err != nil {
		printer.Fail(err.Error())
		return 2
	}
	logger.Debug("config", "api", client.BaseURL(), "file", cfg.File, "timeout", cfg.Timeout.Duration)

	r := &Runner{
		Service: client,
		Printer: printer,
		Options: Options{Group: cfg.Group, Addr: cfg.Addr},
		Interactive: func(ctx context.Context) error {
			return tui.Run(ctx, client, tui.Options{Logger: logger.Logger})
		},
		Serve: func(ctx context.Context, addr string) error {
			return server.New(server.NewStore(nil), logger.Logger).Run(ctx, addr)
		},
	}
	return r.Run(ctx, rest)
}
