// Package build provides version and build information for openicons-site.
// This package has no dependencies on other internal packages.
package build

import "fmt"

var (
	// Version information - set via ldflags during build
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// IsDevBuild returns true if running a development build (not a release).
func IsDevBuild() bool {
	return Version == "dev"
}

// UserAgent returns the User-Agent sent on outbound changelog requests.
func UserAgent() string {
	return "openicons-site/" + Version
}

// Info returns a one-line version summary.
func Info() string {
	return fmt.Sprintf("openicons-site %s (commit %s, built %s)", Version, Commit, BuildDate)
}
