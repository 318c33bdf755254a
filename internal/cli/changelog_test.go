package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/davido-builds/openicons-site/internal/changelog"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleMarkdown = `# Changelog

## [1.1.0] - 2024-02-01

### Added
- Icon search
  - Fuzzy matching

### Fixed
- Picker width

## [1.0.0] - 2024-01-01

Initial release of the icon set.
`

// testCommand returns a command with captured stdout and stderr.
func testCommand() (*cobra.Command, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	return cmd, &out, &errOut
}

func sampleDoc() *changelog.Document {
	return changelog.ParseMarkdown(sampleMarkdown)
}

func TestShowLastItems(t *testing.T) {
	tests := map[string]struct {
		n           int
		wantContain []string
		wantMissing []string
	}{
		"fewer than total": {
			n:           2,
			wantContain: []string{"1.1.0", "Icon search", "Picker width", "(2 of 3 items shown. Use --last 3 to see all)"},
			wantMissing: []string{"Initial release"},
		},
		"all items": {
			n:           10,
			wantContain: []string{"1.1.0", "1.0.0", "Initial release of the icon set."},
			wantMissing: []string{"items shown"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			cmd, out, _ := testCommand()

			err := showLastItems(sampleDoc(), tt.n, cmd, changelog.FormatOptions{Plain: true, MaxWidth: 120})
			require.NoError(t, err)
			for _, s := range tt.wantContain {
				assert.Contains(t, out.String(), s)
			}
			for _, s := range tt.wantMissing {
				assert.NotContains(t, out.String(), s)
			}
		})
	}
}

func TestShowLastItems_Empty(t *testing.T) {
	cmd, out, _ := testCommand()

	require.NoError(t, showLastItems(&changelog.Document{}, 5, cmd, changelog.FormatOptions{Plain: true}))
	assert.Equal(t, "No changelog entries found.\n", out.String())
}

func TestShowVersion(t *testing.T) {
	t.Run("found with v prefix", func(t *testing.T) {
		cmd, out, _ := testCommand()

		require.NoError(t, showVersion(sampleDoc(), "v1.1.0", cmd, changelog.FormatOptions{Plain: true, MaxWidth: 120}))
		assert.Contains(t, out.String(), "1.1.0")
		assert.Contains(t, out.String(), "Fuzzy matching")
		assert.NotContains(t, out.String(), "Initial release")
	})

	t.Run("not found lists versions", func(t *testing.T) {
		cmd, out, errOut := testCommand()

		err := showVersion(sampleDoc(), "2.0.0", cmd, changelog.FormatOptions{Plain: true})
		require.Error(t, err)
		assert.Equal(t, ExitInvalidArguments, ExitCode(err))
		assert.Empty(t, out.String())
		assert.Contains(t, errOut.String(), `Version "2.0.0" not found.`)
		assert.Contains(t, errOut.String(), "  1.1.0\n  1.0.0\n")
	})
}

func TestResolveOutputFormat(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		flag    string
		output  string
		want    changelog.Format
		wantErr bool
	}{
		"default json":          {want: changelog.FormatJSON},
		"explicit yaml":         {flag: "yaml", want: changelog.FormatYAML},
		"yml alias":             {flag: "yml", want: changelog.FormatYAML},
		"inferred from output":  {output: "CHANGELOG.yaml", want: changelog.FormatYAML},
		"json output":           {output: "CHANGELOG.json", want: changelog.FormatJSON},
		"flag overrides output": {flag: "json", output: "CHANGELOG.yml", want: changelog.FormatJSON},
		"unsupported":           {flag: "toml", wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, err := resolveOutputFormat(tt.flag, tt.output)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func setConvertFlags(t *testing.T, format, output string) {
	t.Helper()
	prevFormat, prevOutput := convertFormatFlag, convertOutputFlag
	convertFormatFlag, convertOutputFlag = format, output
	t.Cleanup(func() {
		convertFormatFlag, convertOutputFlag = prevFormat, prevOutput
	})
}

func TestRunChangelogConvert(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "CHANGELOG.md")
	require.NoError(t, os.WriteFile(input, []byte(sampleMarkdown), 0o644))

	t.Run("stdout json", func(t *testing.T) {
		setConvertFlags(t, "", "")
		cmd, out, _ := testCommand()

		require.NoError(t, runChangelogConvert(cmd, input))
		doc, err := changelog.Decode(out.Bytes(), changelog.FormatJSON)
		require.NoError(t, err)
		assert.Equal(t, sampleDoc(), doc)
	})

	t.Run("yaml file", func(t *testing.T) {
		output := filepath.Join(dir, "CHANGELOG.yaml")
		setConvertFlags(t, "", output)
		cmd, out, errOut := testCommand()

		require.NoError(t, runChangelogConvert(cmd, input))
		assert.Empty(t, out.String())
		assert.Contains(t, errOut.String(), "Wrote 2 entries (3 items)")

		doc, err := changelog.LoadFile(output)
		require.NoError(t, err)
		assert.Equal(t, sampleDoc(), doc)

		_, err = os.Stat(output + ".tmp")
		assert.True(t, errors.Is(err, os.ErrNotExist))
	})

	t.Run("missing input", func(t *testing.T) {
		setConvertFlags(t, "", "")
		cmd, _, _ := testCommand()

		err := runChangelogConvert(cmd, filepath.Join(dir, "nope.md"))
		assert.Error(t, err)
	})

	t.Run("no versions warns", func(t *testing.T) {
		empty := filepath.Join(dir, "EMPTY.md")
		require.NoError(t, os.WriteFile(empty, []byte("# Changelog\n"), 0o644))
		setConvertFlags(t, "", "")
		cmd, out, errOut := testCommand()

		require.NoError(t, runChangelogConvert(cmd, empty))
		assert.Contains(t, errOut.String(), "no version headers found")
		assert.JSONEq(t, `{"entries":[]}`, out.String())
	})
}

func TestRunChangelogCheck(t *testing.T) {
	dir := t.TempDir()

	valid := filepath.Join(dir, "CHANGELOG.md")
	require.NoError(t, os.WriteFile(valid, []byte(sampleMarkdown), 0o644))

	invalid := filepath.Join(dir, "CHANGELOG.json")
	require.NoError(t, os.WriteFile(invalid, []byte(`{"entries": [`), 0o644))

	t.Run("valid", func(t *testing.T) {
		cmd, out, _ := testCommand()

		require.NoError(t, runChangelogCheck(cmd, valid))
		assert.Contains(t, out.String(), "2 entries, 3 sections, 3 items")
		assert.Contains(t, out.String(), "latest: 1.1.0")
	})

	t.Run("invalid", func(t *testing.T) {
		cmd, out, _ := testCommand()

		err := runChangelogCheck(cmd, invalid)
		require.Error(t, err)
		assert.Equal(t, ExitValidationFailed, ExitCode(err))
		assert.Contains(t, out.String(), "parsing changelog JSON")
	})

	t.Run("missing", func(t *testing.T) {
		cmd, _, _ := testCommand()

		err := runChangelogCheck(cmd, filepath.Join(dir, "missing.json"))
		assert.Equal(t, ExitValidationFailed, ExitCode(err))
	})
}
