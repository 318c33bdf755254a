package changelog

import (
	"regexp"
	"strings"
)

// NestedBulletMarker joins a nested bullet onto its parent item.
const NestedBulletMarker = "\n  • "

// DefaultSection names the implicit section that collects paragraph text
// appearing before any section header within an entry.
const DefaultSection = "Description"

var (
	versionHeaderPattern = regexp.MustCompile(`^##\s+\[([^\]]+)\]\s*-\s*(.+)$`)
	ruleLinePattern      = regexp.MustCompile(`^---+$`)
	sectionHeaderPattern = regexp.MustCompile(`^###+\s+(.+)$`)
	listItemPattern      = regexp.MustCompile(`^[-*•]\s+(.+)$`)
)

// markdownParser holds the state of a single ParseMarkdown call.
type markdownParser struct {
	entries    []Entry
	entry      *Entry
	section    string
	hasSection bool
	items      []string
	inListItem bool
}

// ParseMarkdown converts a changelog written in the narrow
// "## [version] - date / ### Section / - item" dialect into a Document.
//
// Parsing never fails. Lines that fit no recognized token degrade into
// paragraph or continuation text, and lines before the first version
// header are ignored.
func ParseMarkdown(markdown string) *Document {
	p := &markdownParser{}
	for _, line := range strings.Split(markdown, "\n") {
		p.consume(line)
	}
	p.flushEntry()

	return (&Document{Entries: p.entries}).normalize()
}

func (p *markdownParser) consume(line string) {
	trimmed := strings.TrimSpace(line)

	if trimmed == "" && p.entry == nil {
		return
	}

	if m := versionHeaderPattern.FindStringSubmatch(trimmed); m != nil {
		p.flushEntry()
		p.entry = &Entry{Version: m[1], Date: m[2], Sections: Sections{}}
		return
	}

	if trimmed == "# Changelog" || ruleLinePattern.MatchString(trimmed) {
		return
	}

	if p.entry == nil {
		return
	}

	if m := sectionHeaderPattern.FindStringSubmatch(trimmed); m != nil {
		p.flushSection()
		p.section = m[1]
		p.hasSection = true
		return
	}

	if m := listItemPattern.FindStringSubmatch(trimmed); m != nil {
		text := strings.TrimSpace(m[1])
		if isIndented(line) {
			// Nested bullets attach to the previous item; with no parent
			// they are dropped.
			if n := len(p.items); n > 0 {
				p.items[n-1] += NestedBulletMarker + text
			}
			return
		}
		p.inListItem = true
		p.items = append(p.items, text)
		return
	}

	if trimmed == "" {
		p.inListItem = false
		return
	}

	if p.inListItem {
		if isIndented(line) {
			if n := len(p.items); n > 0 {
				p.items[n-1] += " " + trimmed
			}
		}
		return
	}

	if !p.hasSection {
		p.section = DefaultSection
		p.hasSection = true
	}
	if n := len(p.items); n > 0 {
		p.items[n-1] += " " + trimmed
	} else {
		p.items = append(p.items, trimmed)
	}
}

// flushSection stores the accumulated items under the current section name.
// Sections with no items are not stored.
func (p *markdownParser) flushSection() {
	if p.entry != nil && p.hasSection && len(p.items) > 0 {
		p.entry.Sections.Set(p.section, p.items)
	}
	p.items = nil
	p.inListItem = false
}

// flushEntry finalizes the open section and appends the current entry.
func (p *markdownParser) flushEntry() {
	if p.entry == nil {
		return
	}
	p.flushSection()
	p.entries = append(p.entries, *p.entry)
	p.entry = nil
	p.section = ""
	p.hasSection = false
}

// isIndented reports whether the raw line starts with two spaces or a tab.
func isIndented(line string) bool {
	return strings.HasPrefix(line, "  ") || strings.HasPrefix(line, "\t")
}
