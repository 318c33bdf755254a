package cli

import (
	"context"

	"github.com/davido-builds/openicons-site/internal/config"
	siteerrors "github.com/davido-builds/openicons-site/internal/errors"
	"github.com/spf13/cobra"
)

// Command groups shown in help output.
const (
	GroupServer    = "server"
	GroupChangelog = "changelog"
	GroupSetup     = "setup"
)

var configPathFlag string

var rootCmd = &cobra.Command{
	Use:   "openicons",
	Short: "Backend for the ACF Open Icons site",
	Long: `openicons serves the changelog API and page for the ACF Open Icons site
and accepts contact form submissions, delivering them by email and an
optional automation webhook.

Configuration is loaded with the following priority (highest to lowest):
  1. Environment variables (OPENICONS_*)
  2. Config file (--config, or openicons.yml / openicons.yaml / openicons.json)
  3. Built-in defaults`,
	Example: `  # Start the server
  openicons serve

  # Show the latest changelog items
  openicons changelog

  # Produce CHANGELOG.json from the authored markdown
  openicons changelog convert CHANGELOG.md -o CHANGELOG.json`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPathFlag, "config", "c", "", "Path to config file (default: ./openicons.yml)")

	rootCmd.AddGroup(
		&cobra.Group{ID: GroupServer, Title: "Server Commands:"},
		&cobra.Group{ID: GroupChangelog, Title: "Changelog Commands:"},
		&cobra.Group{ID: GroupSetup, Title: "Setup Commands:"},
	)
}

// Execute runs the root command and returns the error, if any, after
// printing it to stderr.
func Execute() error {
	err := rootCmd.ExecuteContext(context.Background())
	if err != nil && !IsSilentExit(err) {
		caps := DetectTerminalCapabilities()
		printer := siteerrors.Printer{Color: caps.SupportsColor, ASCII: !caps.SupportsUnicode}
		printer.Fprint(rootCmd.ErrOrStderr(), err)
	}
	return err
}

// loadConfig loads configuration honoring the --config flag.
func loadConfig() (*config.Configuration, error) {
	cfg, err := config.Load(configPathFlag)
	if err != nil {
		return nil, siteerrors.WrapWithMessage(err, siteerrors.Configuration, "Failed to load configuration",
			"Run 'openicons config show' to inspect effective settings",
			"Run 'openicons config keys' to list supported keys")
	}
	return cfg, nil
}
