package changelog

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// SectionStyle defines the color and icon for a section in terminal output.
type SectionStyle struct {
	Color *color.Color
	Icon  string
}

// variantStyles maps badge variants to their terminal styling, so terminal
// and page output color sections consistently.
var variantStyles = map[BadgeVariant]SectionStyle{
	BadgeSuccess:   {Color: color.New(color.FgGreen), Icon: "✓"},
	BadgeBlue:      {Color: color.New(color.FgBlue), Icon: "~"},
	BadgeError:     {Color: color.New(color.FgRed), Icon: "✗"},
	BadgeWarning:   {Color: color.New(color.FgYellow), Icon: "⚠"},
	BadgeSecondary: {Color: color.New(color.FgWhite), Icon: "•"},
	BadgeDefault:   {Color: color.New(color.FgWhite), Icon: "•"},
}

// FormatOptions controls the terminal output formatting.
type FormatOptions struct {
	Plain    bool // Disable colors and icons
	MaxWidth int  // Maximum line width (0 = auto-detect)
}

// FormatTerminal writes items to the writer, grouped by version and section.
func FormatTerminal(items []Item, w io.Writer, opts FormatOptions) error {
	if len(items) == 0 {
		return nil
	}

	width := resolveWidth(opts.MaxWidth)

	for i, group := range groupItemsByVersion(items) {
		if i > 0 {
			fmt.Fprintln(w)
		}
		if err := writeVersionHeader(group.version, group.date, w, opts); err != nil {
			return fmt.Errorf("formatting version %s: %w", group.version, err)
		}
		for _, sec := range groupItemsBySection(group.items) {
			if err := writeSection(sec.Name, sec.Items, w, opts, width); err != nil {
				return fmt.Errorf("formatting version %s: %w", group.version, err)
			}
		}
	}

	return nil
}

// FormatEntry writes a single entry with all its sections.
func FormatEntry(e *Entry, w io.Writer, opts FormatOptions) error {
	width := resolveWidth(opts.MaxWidth)

	if err := writeVersionHeader(e.Version, e.Date, w, opts); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, sec := range e.Sections {
		if err := writeSection(sec.Name, sec.Items, w, opts, width); err != nil {
			return err
		}
	}
	return nil
}

// versionGroup holds consecutive items for a single version.
type versionGroup struct {
	version string
	date    string
	items   []Item
}

// groupItemsByVersion groups consecutive items by version, preserving order.
func groupItemsByVersion(items []Item) []versionGroup {
	var groups []versionGroup
	for _, it := range items {
		if n := len(groups); n > 0 && groups[n-1].version == it.Version {
			groups[n-1].items = append(groups[n-1].items, it)
			continue
		}
		groups = append(groups, versionGroup{version: it.Version, date: it.Date, items: []Item{it}})
	}
	return groups
}

// groupItemsBySection regroups items into sections in first-seen order.
func groupItemsBySection(items []Item) Sections {
	var secs Sections
	for _, it := range items {
		existing, _ := secs.Get(it.Section)
		secs.Set(it.Section, append(existing, it.Text))
	}
	return secs
}

// writeVersionHeader writes the version header line.
func writeVersionHeader(version, date string, w io.Writer, opts FormatOptions) error {
	header := "v" + strings.TrimPrefix(version, "v")
	if date != "" {
		header = fmt.Sprintf("%s (%s)", header, date)
	}

	if opts.Plain {
		_, err := fmt.Fprintf(w, "## %s\n", header)
		return err
	}

	bold := color.New(color.Bold).SprintFunc()
	_, err := fmt.Fprintf(w, "## %s\n", bold(header))
	return err
}

// writeSection writes a section header followed by its items.
func writeSection(name string, items []string, w io.Writer, opts FormatOptions, width int) error {
	style := variantStyles[SectionVariant(name)]
	displayName := cases.Title(language.English, cases.NoLower).String(name)

	if opts.Plain {
		if _, err := fmt.Fprintf(w, "\n### %s\n", displayName); err != nil {
			return err
		}
	} else {
		colored := style.Color.SprintFunc()
		if _, err := fmt.Fprintf(w, "\n%s %s\n", colored(style.Icon), colored(displayName)); err != nil {
			return err
		}
	}

	for _, item := range items {
		if err := writeItem(item, style, w, opts, width); err != nil {
			return err
		}
	}
	return nil
}

// writeItem writes a single item, wrapping long lines and indenting nested bullets.
func writeItem(text string, style SectionStyle, w io.Writer, opts FormatOptions, width int) error {
	const prefix = "  - "
	text = strings.ReplaceAll(text, NestedBulletMarker, "\n      • ")

	if opts.Plain {
		_, err := fmt.Fprintf(w, "%s%s\n", prefix, text)
		return err
	}

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = wrapText(line, width-len(prefix), "    ")
	}

	colored := style.Color.SprintFunc()
	_, err := fmt.Fprintf(w, "%s%s\n", prefix, colored(strings.Join(lines, "\n")))
	return err
}

// resolveWidth determines the terminal width to use.
func resolveWidth(maxWidth int) int {
	if maxWidth > 0 {
		return maxWidth
	}
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}

// wrapText wraps text to fit within maxWidth, using indent for continuation lines.
func wrapText(text string, maxWidth int, indent string) string {
	if maxWidth <= 0 || len(text) <= maxWidth {
		return text
	}

	var lines []string
	remaining := text

	for len(remaining) > maxWidth {
		breakPoint := maxWidth
		for i := maxWidth - 1; i > 0; i-- {
			if remaining[i] == ' ' {
				breakPoint = i
				break
			}
		}

		lines = append(lines, remaining[:breakPoint])
		remaining = strings.TrimLeft(remaining[breakPoint:], " ")
	}

	if len(remaining) > 0 {
		lines = append(lines, remaining)
	}

	return strings.Join(lines, "\n"+indent)
}

// FormatItemSummary returns a brief one-line summary of an item.
func FormatItemSummary(it Item, opts FormatOptions) string {
	text := truncateText(strings.ReplaceAll(it.Text, NestedBulletMarker, " / "), 60)

	if opts.Plain {
		return fmt.Sprintf("[%s] %s", it.Section, text)
	}

	style := variantStyles[SectionVariant(it.Section)]
	colored := style.Color.SprintFunc()
	return fmt.Sprintf("%s %s", colored(style.Icon), text)
}

// truncateText truncates text to maxLen runes, adding ellipsis if needed.
func truncateText(text string, maxLen int) string {
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	return string(runes[:maxLen-3]) + "..."
}
