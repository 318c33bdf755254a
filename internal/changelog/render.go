package changelog

import (
	"context"
	"fmt"
	"html"
	"io"
	"regexp"
	"strings"

	"github.com/a-h/templ"
)

const (
	codeSpanOpen     = `<code class="rounded bg-zinc-100 px-1 py-0.5 text-sm font-mono text-zinc-900">`
	nestedBulletHTML = `<br /><span class="ml-4 text-zinc-500">•</span> `
	lineBreakHTML    = `<br />`
)

var (
	boldPattern = regexp.MustCompile(`\*\*(.+?)\*\*`)
	codePattern = regexp.MustCompile("`([^`]+)`")
)

// FormatItem converts one changelog item into a display-safe HTML fragment.
// The item text is escaped first, so the only markup in the result is the
// bold, code, nested bullet and line break substitutions.
func FormatItem(item string) string {
	return applyFormatting(html.EscapeString(item))
}

// applyFormatting runs the ordered substitutions. Its output contains none
// of the patterns it matches, so applying it again is a no-op.
func applyFormatting(s string) string {
	s = boldPattern.ReplaceAllString(s, "<strong>$1</strong>")
	s = codePattern.ReplaceAllString(s, codeSpanOpen+"$1</code>")
	s = strings.ReplaceAll(s, NestedBulletMarker, nestedBulletHTML)
	s = strings.ReplaceAll(s, "\n", lineBreakHTML)
	return s
}

// BadgeVariant names the visual style of a section badge.
type BadgeVariant string

const (
	BadgeDefault   BadgeVariant = "default"
	BadgeSecondary BadgeVariant = "secondary"
	BadgeSuccess   BadgeVariant = "success"
	BadgeWarning   BadgeVariant = "warning"
	BadgeError     BadgeVariant = "error"
	BadgeBlue      BadgeVariant = "blue"
)

var sectionVariants = map[string]BadgeVariant{
	"Added":                    BadgeSuccess,
	"Changed":                  BadgeBlue,
	"Fixed":                    BadgeError,
	"Removed":                  BadgeWarning,
	"Security":                 BadgeError,
	"Technical Improvements":   BadgeSecondary,
	"Documentation":            BadgeSecondary,
	"Code Quality":             BadgeSecondary,
	"Migration Notes":          BadgeBlue,
	"Features":                 BadgeSuccess,
	"UX Improvements":          BadgeBlue,
	"Performance Improvements": BadgeSuccess,
	DefaultSection:             BadgeSecondary,
}

var badgeClasses = map[BadgeVariant]string{
	BadgeDefault:   "bg-zinc-900 text-white",
	BadgeSecondary: "bg-zinc-100 text-zinc-700",
	BadgeSuccess:   "bg-emerald-50 text-emerald-700",
	BadgeWarning:   "bg-amber-50 text-amber-700",
	BadgeError:     "bg-red-50 text-red-700",
	BadgeBlue:      "bg-blue-50 text-blue-700",
}

// SectionVariant returns the badge variant for a section, defaulting to secondary.
func SectionVariant(name string) BadgeVariant {
	if v, ok := sectionVariants[name]; ok {
		return v
	}
	return BadgeSecondary
}

// EntriesView renders the entry list fragment of the changelog page.
func EntriesView(entries []Entry) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if len(entries) == 0 {
			_, err := io.WriteString(w, `<div class="text-center text-zinc-500">No changelog entries found.</div>`)
			return err
		}

		var b strings.Builder
		b.WriteString(`<div class="space-y-6">`)
		for _, entry := range entries {
			writeEntry(&b, entry)
		}
		b.WriteString(`</div>`)

		_, err := io.WriteString(w, b.String())
		return err
	})
}

// ErrorView renders the retrieval failure state of the changelog page.
func ErrorView(message string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<div class="rounded border border-red-200 bg-red-50 p-4 text-red-700">%s</div>`, templ.EscapeString(message))
		return err
	})
}

func writeEntry(b *strings.Builder, entry Entry) {
	b.WriteString(`<article class="rounded-lg border border-zinc-200 p-6 text-left">`)
	fmt.Fprintf(b, `<header class="mb-4 flex flex-col gap-1"><span class="text-sm text-zinc-500">%s</span>`, templ.EscapeString(entry.Date))
	fmt.Fprintf(b, `<h2 class="text-xl font-medium text-zinc-900">Version %s</h2></header>`, templ.EscapeString(entry.Version))
	b.WriteString(`<div class="space-y-8">`)

	for _, sec := range entry.Sections {
		b.WriteString(`<section class="text-left"><div class="mb-4">`)
		fmt.Fprintf(b, `<span class="badge rounded px-2 py-0.5 text-xs %s" data-variant="%s">%s</span></div>`,
			badgeClasses[SectionVariant(sec.Name)], SectionVariant(sec.Name), templ.EscapeString(sec.Name))

		if len(sec.Items) == 0 {
			fmt.Fprintf(b, `<p class="text-left text-zinc-600">%s</p>`, templ.EscapeString(sec.Name))
		} else {
			b.WriteString(`<ul class="list-outside list-disc space-y-2 pl-6 text-zinc-600">`)
			for _, item := range sec.Items {
				b.WriteString(`<li>`)
				b.WriteString(FormatItem(item))
				b.WriteString(`</li>`)
			}
			b.WriteString(`</ul>`)
		}
		b.WriteString(`</section>`)
	}

	b.WriteString(`</div></article>`)
}
