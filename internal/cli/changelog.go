package cli

import (
	"context"
	"fmt"

	"github.com/davido-builds/openicons-site/internal/build"
	"github.com/davido-builds/openicons-site/internal/changelog"
	siteerrors "github.com/davido-builds/openicons-site/internal/errors"
	"github.com/spf13/cobra"
)

var (
	changelogLastFlag  int
	changelogPlainFlag bool
)

var changelogCmd = &cobra.Command{
	Use:   "changelog [version]",
	Short: "View changelog items from the configured source",
	Long: `View changelog items from the configured changelog source.

The changelog is fetched the same way the server does: the remote URL
(OPENICONS_CHANGELOG_URL) first, then the local fallback file.

By default, shows the 5 most recent items. Use a version argument to
see all items for a specific version, or use --last to control the count.

Examples:
  openicons changelog              # Show 5 most recent items
  openicons changelog v1.4.0       # Show all items for version 1.4.0
  openicons changelog 1.4.0        # Same (v prefix optional)
  openicons changelog --last 10    # Show 10 most recent items
  openicons changelog --plain      # Plain output (no colors/icons)`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChangelogView(cmd, args)
	},
}

func init() {
	changelogCmd.GroupID = GroupChangelog
	rootCmd.AddCommand(changelogCmd)

	changelogCmd.Flags().IntVar(&changelogLastFlag, "last", 5, "Number of items to show")
	changelogCmd.Flags().BoolVar(&changelogPlainFlag, "plain", false, "Plain text output (no colors/icons)")
}

func runChangelogView(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	caps := DetectTerminalCapabilities()
	source := changelog.NewSource(cfg.SourceConfig(build.UserAgent()))

	doc, err := fetchWithSpinner(cmd, caps, source)
	if err != nil {
		return err
	}

	opts := changelog.FormatOptions{
		Plain:    changelogPlainFlag || !caps.SupportsColor,
		MaxWidth: caps.Width,
	}

	if len(args) == 1 {
		return showVersion(doc, args[0], cmd, opts)
	}
	return showLastItems(doc, changelogLastFlag, cmd, opts)
}

// fetchWithSpinner fetches the document with a spinner on stderr.
func fetchWithSpinner(cmd *cobra.Command, caps TerminalCapabilities, source changelog.Fetcher) (*changelog.Document, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	stop := startSpinner(cmd.ErrOrStderr(), caps, "Fetching changelog...")
	doc, err := source.Fetch(ctx)
	stop()
	return doc, err
}

func showVersion(doc *changelog.Document, version string, cmd *cobra.Command, opts changelog.FormatOptions) error {
	entry, err := doc.GetVersion(version)
	if err != nil {
		if siteerrors.Is(err, siteerrors.NotFound) {
			fmt.Fprintf(cmd.ErrOrStderr(), "Version %q not found.\n\n", version)
			fmt.Fprintf(cmd.ErrOrStderr(), "Available versions:\n")
			for _, v := range doc.ListVersions() {
				fmt.Fprintf(cmd.ErrOrStderr(), "  %s\n", v)
			}
			return NewExitError(ExitInvalidArguments)
		}
		return fmt.Errorf("getting version: %w", err)
	}

	return changelog.FormatEntry(entry, cmd.OutOrStdout(), opts)
}

func showLastItems(doc *changelog.Document, n int, cmd *cobra.Command, opts changelog.FormatOptions) error {
	items := doc.GetLastN(n)
	if len(items) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No changelog entries found.")
		return nil
	}

	if err := changelog.FormatTerminal(items, cmd.OutOrStdout(), opts); err != nil {
		return fmt.Errorf("formatting items: %w", err)
	}

	total := doc.ItemCount()
	if total > len(items) {
		fmt.Fprintf(cmd.OutOrStdout(), "\n(%d of %d items shown. Use --last %d to see all)\n",
			len(items), total, total)
	}

	return nil
}
