package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/davido-builds/openicons-site/internal/health"
	"github.com/spf13/cobra"
)

// doctorTimeout bounds the changelog retrieval check.
const doctorTimeout = 15 * time.Second

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that the deployment is correctly configured",
	Long: `Run health checks against the effective configuration:
  - the changelog can be retrieved from the configured source
  - the local fallback file exists and parses
  - email delivery is configured
  - the automation webhook is configured (optional)`,
	Example: `  openicons doctor`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		ctx, cancel := context.WithTimeout(ctx, doctorTimeout)
		defer cancel()

		report := health.RunHealthChecks(ctx, cfg)
		fmt.Fprint(cmd.OutOrStdout(), health.FormatReport(report))

		if !report.Passed {
			return NewExitError(ExitFailure)
		}
		return nil
	},
}

func init() {
	doctorCmd.GroupID = GroupSetup
	rootCmd.AddCommand(doctorCmd)
}
