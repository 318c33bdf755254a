package cli

import (
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"golang.org/x/term"
)

// Color helpers for command output
var (
	cGreen  = color.New(color.FgGreen).SprintFunc()
	cYellow = color.New(color.FgYellow).SprintFunc()
	cRed    = color.New(color.FgRed).SprintFunc()
	cCyan   = color.New(color.FgCyan).SprintFunc()
	cDim    = color.New(color.Faint).SprintFunc()
	cBold   = color.New(color.Bold).SprintFunc()
)

// TerminalCapabilities describes what the attached terminal supports.
type TerminalCapabilities struct {
	IsTTY           bool
	SupportsColor   bool
	SupportsUnicode bool
	Width           int
}

// DetectTerminalCapabilities checks: stdout isatty, NO_COLOR env,
// OPENICONS_ASCII env and terminal width.
func DetectTerminalCapabilities() TerminalCapabilities {
	isTTY := term.IsTerminal(int(os.Stdout.Fd()))

	noColor := os.Getenv("NO_COLOR") != ""
	forceASCII := os.Getenv("OPENICONS_ASCII") == "1"

	width := 0
	if isTTY {
		if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			width = w
		}
	}

	return TerminalCapabilities{
		IsTTY:           isTTY,
		SupportsColor:   isTTY && !noColor,
		SupportsUnicode: isTTY && !forceASCII,
		Width:           width,
	}
}

// Symbols returns the check and cross marks for the terminal.
func (c TerminalCapabilities) Symbols() (ok, fail string) {
	if c.SupportsUnicode {
		return "✓", "✗"
	}
	return "[OK]", "[FAIL]"
}

// spinnerSet returns the spinner charset index: braille dots (14) or |/-\ (9).
func (c TerminalCapabilities) spinnerSet() int {
	if c.SupportsUnicode {
		return 14
	}
	return 9
}

// startSpinner shows a spinner with the given suffix on w while work runs.
// It is a no-op off a terminal. The returned func stops the spinner.
func startSpinner(w io.Writer, caps TerminalCapabilities, suffix string) func() {
	if !caps.IsTTY {
		return func() {}
	}

	s := spinner.New(spinner.CharSets[caps.spinnerSet()], 100*time.Millisecond, spinner.WithWriter(w))
	s.Suffix = " " + suffix
	s.Start()
	return s.Stop
}
