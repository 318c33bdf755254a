package cli

import (
	"fmt"
	"io"
	"runtime"

	"github.com/davido-builds/openicons-site/internal/build"
	"github.com/spf13/cobra"
)

var versionPlain bool

var versionCmd = &cobra.Command{
	Use:     "version",
	Aliases: []string{"v"},
	Short:   "Display version information",
	Long:    "Display version, commit, build date, and Go version information for openicons",
	Example: `  # Show version info
  openicons version

  # Plain output (for scripts)
  openicons version --plain`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if versionPlain {
			printPlainVersion(cmd.OutOrStdout())
			return
		}
		printPrettyVersion(cmd.OutOrStdout())
	},
}

func init() {
	versionCmd.GroupID = GroupSetup
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().BoolVar(&versionPlain, "plain", false, "Plain output without formatting")
}

// printPlainVersion prints a simple version output for scripting
func printPlainVersion(w io.Writer) {
	fmt.Fprintf(w, "openicons %s\n", build.Version)
	fmt.Fprintf(w, "commit: %s\n", build.Commit)
	fmt.Fprintf(w, "built: %s\n", build.BuildDate)
	fmt.Fprintf(w, "go: %s\n", runtime.Version())
	fmt.Fprintf(w, "platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
}

func printPrettyVersion(w io.Writer) {
	fmt.Fprintf(w, "%s %s\n", cBold("openicons"), cCyan(build.Version))
	fmt.Fprintf(w, "  %s %s\n", cDim("commit:  "), build.Commit)
	fmt.Fprintf(w, "  %s %s\n", cDim("built:   "), build.BuildDate)
	fmt.Fprintf(w, "  %s %s\n", cDim("go:      "), runtime.Version())
	fmt.Fprintf(w, "  %s %s/%s\n", cDim("platform:"), runtime.GOOS, runtime.GOARCH)
}
