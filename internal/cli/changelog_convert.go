package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/davido-builds/openicons-site/internal/changelog"
	"github.com/spf13/cobra"
)

var (
	convertFormatFlag string
	convertOutputFlag string
)

var changelogConvertCmd = &cobra.Command{
	Use:   "convert <file.md>",
	Short: "Convert an authored markdown changelog to JSON or YAML",
	Long: `Convert an authored markdown changelog into the canonical document.

The markdown dialect:
  ## [1.4.0] - 2024-05-01      version header
  ### Added                    section header
  - Item text                  list item (-, * or •)
    - Nested detail            nested bullet, appended to the previous item
  Plain paragraph              collected under the "Description" section

The output defaults to JSON on stdout. The format is inferred from the
--output extension unless --format is given.`,
	Example: `  # Produce CHANGELOG.json for the server's local fallback
  openicons changelog convert CHANGELOG.md -o CHANGELOG.json

  # Print the YAML rendition
  openicons changelog convert CHANGELOG.md --format yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChangelogConvert(cmd, args[0])
	},
}

func init() {
	changelogCmd.AddCommand(changelogConvertCmd)

	changelogConvertCmd.Flags().StringVarP(&convertFormatFlag, "format", "f", "", "Output format: json or yaml (default: from --output, else json)")
	changelogConvertCmd.Flags().StringVarP(&convertOutputFlag, "output", "o", "", "Write to file instead of stdout")
}

func runChangelogConvert(cmd *cobra.Command, inputPath string) error {
	format, err := resolveOutputFormat(convertFormatFlag, convertOutputFlag)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", inputPath, err)
	}

	doc := changelog.ParseMarkdown(string(data))
	if len(doc.Entries) == 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s no version headers found in %s\n", cYellow("Warning:"), inputPath)
	}

	if convertOutputFlag == "" {
		return changelog.Encode(cmd.OutOrStdout(), doc, format)
	}

	if err := writeDocument(convertOutputFlag, doc, format); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%s Wrote %d entries (%d items) to %s\n",
		cGreen("✓"), len(doc.Entries), doc.ItemCount(), convertOutputFlag)
	return nil
}

// resolveOutputFormat picks the output format from the flag or output path.
func resolveOutputFormat(flag, outputPath string) (changelog.Format, error) {
	switch flag {
	case "json":
		return changelog.FormatJSON, nil
	case "yaml", "yml":
		return changelog.FormatYAML, nil
	case "":
		if outputPath != "" && changelog.FormatForPath(outputPath) == changelog.FormatYAML {
			return changelog.FormatYAML, nil
		}
		return changelog.FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported format %q (valid options: json, yaml)", flag)
	}
}

// writeDocument encodes doc fully before touching path so a failed encode
// leaves an existing file intact.
func writeDocument(path string, doc *changelog.Document, format changelog.Format) error {
	var buf bytes.Buffer
	if err := changelog.Encode(&buf, doc, format); err != nil {
		return err
	}
	return writeFileAtomic(path, &buf)
}

func writeFileAtomic(path string, r io.Reader) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("creating %s: %w", tmp, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("writing %s: %w", tmp, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("closing %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("renaming %s: %w", tmp, err)
	}
	return nil
}
