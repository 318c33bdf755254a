package changelog

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatTerminal_Plain(t *testing.T) {
	doc := ParseMarkdown("## [1.2.0] - 2024-03-01\n### Added\n- Search\n  - fuzzy\n### Fixed\n- Crash\n\n## [1.1.0] - 2024-02-01\n### Changed\n- Layout\n")

	var buf bytes.Buffer
	require.NoError(t, FormatTerminal(doc.AllItems(), &buf, FormatOptions{Plain: true, MaxWidth: 80}))

	want := strings.Join([]string{
		"## v1.2.0 (2024-03-01)",
		"",
		"### Added",
		"  - Search",
		"      • fuzzy",
		"",
		"### Fixed",
		"  - Crash",
		"",
		"## v1.1.0 (2024-02-01)",
		"",
		"### Changed",
		"  - Layout",
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}

func TestFormatTerminal_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatTerminal(nil, &buf, FormatOptions{Plain: true}))
	assert.Empty(t, buf.String())
}

func TestFormatEntry_Plain(t *testing.T) {
	doc := ParseMarkdown("## [v2.0.0] - soon\n### UX Improvements\n- Better\n")

	var buf bytes.Buffer
	require.NoError(t, FormatEntry(&doc.Entries[0], &buf, FormatOptions{Plain: true, MaxWidth: 80}))
	assert.Equal(t, "## v2.0.0 (soon)\n\n### UX Improvements\n  - Better\n", buf.String())
}

func TestWrapText(t *testing.T) {
	tests := map[string]struct {
		text  string
		width int
		want  string
	}{
		"fits":       {text: "short", width: 10, want: "short"},
		"zero width": {text: "anything goes", width: 0, want: "anything goes"},
		"breaks at space": {
			text:  "one two three",
			width: 8,
			want:  "one two\n  three",
		},
		"no space hard breaks": {
			text:  "abcdefghij",
			width: 4,
			want:  "abcd\n  efgh\n  ij",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, wrapText(tt.text, tt.width, "  "))
		})
	}
}

func TestFormatItemSummary(t *testing.T) {
	it := Item{Text: "Parent" + NestedBulletMarker + "Child", Section: "Added"}
	assert.Equal(t, "[Added] Parent / Child", FormatItemSummary(it, FormatOptions{Plain: true}))

	long := Item{Text: strings.Repeat("é", 80), Section: "Fixed"}
	summary := FormatItemSummary(long, FormatOptions{Plain: true})
	assert.True(t, strings.HasSuffix(summary, "..."))
	assert.Equal(t, len("[Fixed] ")+57*len("é")+3, len(summary))
}
