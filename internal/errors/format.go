package errors

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Printer renders errors for the openicons CLI.
type Printer struct {
	// Color enables ANSI styling.
	Color bool
	// ASCII replaces the bullet glyph with "-".
	ASCII bool
}

type style []color.Attribute

var (
	styleLabel    = style{color.FgRed, color.Bold}
	styleMessage  = style{color.FgRed}
	styleCategory = style{color.FgYellow}
	styleCause    = style{color.Faint}
	styleFix      = style{color.FgGreen, color.Bold}
	styleBullet   = style{color.FgGreen}
)

// paint applies st only when the printer is colored, independent of
// fatih/color's global NoColor detection.
func (p Printer) paint(st style, s string) string {
	if !p.Color {
		return s
	}
	c := color.New(st...)
	c.EnableColor()
	return c.Sprint(s)
}

// Format renders err. An *Error anywhere in the chain gets the full layout:
// header with category and HTTP status, cause, then remediation steps.
// Any other error gets a single header line.
func (p Printer) Format(err error) string {
	if err == nil {
		return ""
	}

	e := As(err)
	if e == nil {
		return p.paint(styleLabel, "Error") + ": " + p.paint(styleMessage, err.Error()) + "\n"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s [%s, %d]: %s\n",
		p.paint(styleLabel, "Error"),
		p.paint(styleCategory, e.Category.String()),
		e.HTTPStatus(),
		p.paint(styleMessage, e.Message))

	if cause := e.Diagnostic(); cause != "" && cause != e.Message {
		sb.WriteString("  caused by: ")
		sb.WriteString(p.paint(styleCause, cause))
		sb.WriteString("\n")
	}

	if len(e.Remediation) == 0 {
		return sb.String()
	}

	mark := "•"
	if p.ASCII {
		mark = "-"
	}
	sb.WriteString("\n")
	sb.WriteString(p.paint(styleFix, "To fix this:"))
	sb.WriteString("\n")
	for _, step := range e.Remediation {
		fmt.Fprintf(&sb, "  %s %s\n", p.paint(styleBullet, mark), step)
	}
	return sb.String()
}

// Fprint writes the rendering of err to w.
func (p Printer) Fprint(w io.Writer, err error) {
	fmt.Fprint(w, p.Format(err))
}

// FormatErrorPlain renders err without styling.
func FormatErrorPlain(err error) string {
	return Printer{}.Format(err)
}
