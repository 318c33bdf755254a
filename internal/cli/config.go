package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/davido-builds/openicons-site/internal/config"
	"github.com/spf13/cobra"
)

var configInitForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage openicons configuration",
	Long: `Manage openicons configuration settings.

Configuration is loaded with the following priority (highest to lowest):
  1. Environment variables (OPENICONS_*, plus CHANGELOG_URL and GITHUB_TOKEN)
  2. Config file (--config, or openicons.yml / openicons.yaml / openicons.json)
  3. Built-in defaults`,
	Example: `  # List supported keys
  openicons config keys

  # Show effective configuration (secrets redacted)
  openicons config show

  # Write a commented openicons.yml
  openicons config init`,
}

var configKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List supported configuration keys",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "KEY\tTYPE\tENV\tDESCRIPTION")
		for _, key := range config.SortedKeys() {
			schema := config.KnownKeys[key]
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", key, schema.Type, schema.EnvVar(), schema.Description)
		}
		return w.Flush()
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		source := "defaults and environment"
		if cfg.Path != "" {
			source = cfg.Path
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n\n", cDim("# loaded from"), cDim(source))

		values := cfg.Values()
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		for _, key := range config.SortedKeys() {
			fmt.Fprintf(w, "%s:\t%s\n", key, values[key])
		}
		return w.Flush()
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a commented config file with defaults",
	Long: `Write a config file listing every supported key with its default.

If the file already exists it is left unchanged (use --force to overwrite).`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.ProjectConfigPaths()[0]
		if len(args) == 1 {
			path = args[0]
		}
		return runConfigInit(cmd, path, configInitForce)
	},
}

func init() {
	configCmd.GroupID = GroupSetup
	rootCmd.AddCommand(configCmd)

	configCmd.AddCommand(configKeysCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)

	configInitCmd.Flags().BoolVarP(&configInitForce, "force", "f", false, "Overwrite an existing config file")
}

func runConfigInit(cmd *cobra.Command, path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s already exists (use --force to overwrite)\n", cYellow("○"), path)
		return nil
	}

	if err := os.WriteFile(path, []byte(config.GetDefaultConfigTemplate()), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s Created %s\n", cGreen("✓"), path)
	return nil
}
