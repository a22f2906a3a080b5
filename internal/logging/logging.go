// Package logging builds the charmbracelet/log logger shared by the client,
// the TUI and the reference server.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

const prefix = "tada"

// Options holds configuration for a logger.
type Options struct {
	Level           string
	File            string    // when set, logs are appended here
	Output          io.Writer // used when File is empty; nil discards
	ReportTimestamp bool
}

// Logger wraps *log.Logger together with the file it may own.
type Logger struct {
	*log.Logger
	file *os.File
}

// New creates a logger from opts. The TUI owns the terminal, so callers
// that run it should pass a File or leave Output nil.
func New(opts Options) (*Logger, error) {
	level, err := log.ParseLevel(opts.Level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	var (
		out  = opts.Output
		file *os.File
	)
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
		file, err = os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		out = file
	}
	if out == nil {
		out = io.Discard
	}

	l := log.NewWithOptions(out, log.Options{
		Level:           level,
		Formatter:       log.TextFormatter,
		ReportTimestamp: opts.ReportTimestamp || file != nil,
		Prefix:          prefix,
	})
	return &Logger{Logger: l, file: file}, nil
}

// Discard returns a logger that drops everything. Handy in tests.
func Discard() *Logger {
	return &Logger{Logger: log.NewWithOptions(io.Discard, log.Options{Prefix: prefix})}
}

// Close closes the log file, if New opened one.
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}
