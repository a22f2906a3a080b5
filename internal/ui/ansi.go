package ui

import (
	"fmt"
	"io"
	"os"
)

var (
	reset = "\033[0m"
	bold  = "\033[1m"
	dim   = "\033[2m"

	fgGray   = "\033[90m"
	fgGreen  = "\033[32m"
	fgYellow = "\033[33m"
	fgBlue   = "\033[34m"
	fgRed    = "\033[31m"

	symCheck = "✔"
	symCross = "✖"
)

// Options pick a theme and override color detection.
type Options struct {
	Theme        string
	ForceColor   bool
	DisableColor bool
}

// Printer writes themed CLI output. Results go to Out, failures to Err.
type Printer struct {
	Out, Err io.Writer
	theme    Theme
	color    bool
}

func NewPrinter(out, errOut io.Writer, opts Options) *Printer {
	theme, mono := themeByName(opts.Theme)
	color := isTTY(out)
	if opts.ForceColor {
		color = true
	}
	if opts.DisableColor || mono {
		color = false
	}
	return &Printer{Out: out, Err: errOut, theme: theme, color: color}
}

func isTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

// Theme returns the active theme.
func (p *Printer) Theme() Theme { return p.theme }

// C wraps s in color when coloring is on.
func (p *Printer) C(color, s string) string {
	if !p.color || color == "" {
		return s
	}
	return color + s + reset
}

func (p *Printer) OK(msg string) { fmt.Fprintln(p.Out, p.C(p.theme.Success, symCheck+" "+msg)) }

func (p *Printer) Fail(msg string) { fmt.Fprintln(p.Err, p.C(p.theme.Error, symCross+" "+msg)) }

// Hint prints a muted follow-up line under a failure.
func (p *Printer) Hint(msg string) { fmt.Fprintln(p.Err, p.C(p.theme.Muted, "Hint: "+msg)) }
