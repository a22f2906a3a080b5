package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestProgressBar(t *testing.T) {
	tests := []struct {
		done, total, width int
		want               string
	}{
		{0, 0, 10, "░░░░░░░░░░   0%"},
		{1, 2, 10, "█████░░░░░  50%"},
		{3, 3, 5, "█████ 100%"},
		{1, 1, 2, "█████ 100%"},
	}
	for _, tt := range tests {
		if got := ProgressBar(tt.done, tt.total, tt.width); got != tt.want {
			t.Errorf("ProgressBar(%d, %d, %d): got %q, want %q", tt.done, tt.total, tt.width, got, tt.want)
		}
	}
}

func TestPanelPadsToWidestVisibleLine(t *testing.T) {
	var out bytes.Buffer
	p := NewPrinter(&out, &out, Options{Theme: "mono"})
	p.Panel([]string{"ab", "abcd", "할 일", "한"})

	want := strings.Join([]string{
		"+-------+",
		"| ab    |",
		"| abcd  |",
		"| 할 일 |",
		"| 한    |",
		"+-------+",
		"",
	}, "\n")
	if out.String() != want {
		t.Errorf("Panel:\n%s\nwant:\n%s", out.String(), want)
	}
}

func TestPanelIgnoresColorCodes(t *testing.T) {
	var out bytes.Buffer
	p := NewPrinter(&out, &out, Options{ForceColor: true})
	p.Panel([]string{p.C(fgGreen, "done"), "한글"})

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	for i, ln := range lines {
		if w := lipgloss.Width(ln); w != 8 {
			t.Errorf("row %d: got width %d, want 8: %q", i, w, ln)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"Buy milk", 10, "Buy milk"},
		{"Buy oat milk today", 10, "Buy oat..."},
		{"한글한글한글", 8, "한글..."},
	}
	for _, tt := range tests {
		got := Truncate(tt.in, tt.width)
		if got != tt.want {
			t.Errorf("Truncate(%q, %d): got %q, want %q", tt.in, tt.width, got, tt.want)
		}
		if w := lipgloss.Width(got); w > tt.width {
			t.Errorf("Truncate(%q, %d): width %d", tt.in, tt.width, w)
		}
	}
}

func TestColorSelection(t *testing.T) {
	var out, errOut bytes.Buffer

	plain := NewPrinter(&out, &errOut, Options{})
	plain.OK("added")
	plain.Fail("boom")
	if out.String() != "✔ added\n" {
		t.Errorf("OK without tty: got %q", out.String())
	}
	if errOut.String() != "✖ boom\n" {
		t.Errorf("Fail without tty: got %q", errOut.String())
	}

	forced := NewPrinter(&out, &errOut, Options{ForceColor: true})
	if got := forced.C(fgGreen, "x"); got != fgGreen+"x"+reset {
		t.Errorf("forced color: got %q", got)
	}

	mono := NewPrinter(&out, &errOut, Options{Theme: "mono", ForceColor: true})
	if got := mono.C(fgGreen, "x"); got != "x" {
		t.Errorf("mono ignores force: got %q", got)
	}

	disabled := NewPrinter(&out, &errOut, Options{ForceColor: true, DisableColor: true})
	if got := disabled.C(fgGreen, "x"); got != "x" {
		t.Errorf("disable wins: got %q", got)
	}
}
