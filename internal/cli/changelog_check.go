package cli

import (
	"fmt"

	"github.com/davido-builds/openicons-site/internal/changelog"
	"github.com/spf13/cobra"
)

var changelogCheckCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Validate a changelog document file",
	Long: `Load a changelog document (.json, .yaml/.yml or .md) and report its
entry, section and item counts. Exits non-zero if the file cannot be parsed.

Example:
  openicons changelog check CHANGELOG.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChangelogCheck(cmd, args[0])
	},
}

func init() {
	changelogCmd.AddCommand(changelogCheckCmd)
}

func runChangelogCheck(cmd *cobra.Command, path string) error {
	doc, err := changelog.LoadFile(path)
	if err != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %v\n", cRed("✗"), path, err)
		return NewExitError(ExitValidationFailed)
	}

	sections := 0
	for _, e := range doc.Entries {
		sections += len(e.Sections)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %d entries, %d sections, %d items\n",
		cGreen("✓"), path, len(doc.Entries), sections, doc.ItemCount())
	if latest := doc.Latest(); latest != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "  latest: %s %s\n", latest.Version, cDim(latest.Date))
	}
	return nil
}
