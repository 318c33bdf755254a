// Package health provides deployment health checks for openicons-site. It
// verifies that the changelog can be retrieved and that contact delivery is
// configured, returning structured reports used by the 'openicons doctor'
// command.
package health

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/davido-builds/openicons-site/internal/build"
	"github.com/davido-builds/openicons-site/internal/changelog"
	"github.com/davido-builds/openicons-site/internal/config"
	siteerrors "github.com/davido-builds/openicons-site/internal/errors"
	"github.com/davido-builds/openicons-site/internal/notify"
)

// CheckResult represents the result of a single health check
type CheckResult struct {
	Name    string
	Passed  bool
	Message string
	// Optional checks are reported but do not fail the report.
	Optional bool
}

// HealthReport contains all health check results
type HealthReport struct {
	Checks []CheckResult
	Passed bool
}

// RunHealthChecks runs all health checks against cfg and returns a report.
func RunHealthChecks(ctx context.Context, cfg *config.Configuration) *HealthReport {
	report := &HealthReport{
		Checks: make([]CheckResult, 0, 4),
		Passed: true,
	}

	checks := []CheckResult{
		CheckChangelogSource(ctx, cfg.SourceConfig(build.UserAgent())),
		CheckFallbackFile(cfg.Changelog.FallbackPath, cfg.Changelog.URL != ""),
		CheckEmailDelivery(cfg.Notify),
		CheckWebhook(cfg.Notify),
	}
	for _, check := range checks {
		report.Checks = append(report.Checks, check)
		if !check.Passed && !check.Optional {
			report.Passed = false
		}
	}

	return report
}

// CheckChangelogSource fetches the changelog the way the server does.
func CheckChangelogSource(ctx context.Context, cfg changelog.SourceConfig) CheckResult {
	source := changelog.NewSource(cfg)
	doc, err := source.Fetch(ctx)
	if err != nil {
		message := err.Error()
		if e := siteerrors.As(err); e != nil {
			message = e.Message
		}
		return CheckResult{
			Name:    "Changelog source",
			Passed:  false,
			Message: message,
		}
	}

	origin := source.FallbackPath()
	if endpoint, remote := source.Endpoint(); remote {
		origin = endpoint.URL
	}
	return CheckResult{
		Name:    "Changelog source",
		Passed:  true,
		Message: fmt.Sprintf("%d entries (configured source: %s)", len(doc.Entries), origin),
	}
}

// CheckFallbackFile verifies the local fallback file exists and parses.
// The check is optional when a remote URL is configured.
func CheckFallbackFile(path string, hasRemote bool) CheckResult {
	result := CheckResult{Name: "Fallback file", Optional: hasRemote}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			result.Message = fmt.Sprintf("%s not found", path)
		} else {
			result.Message = fmt.Sprintf("%s: %v", path, err)
		}
		return result
	}

	doc, err := changelog.LoadFile(path)
	if err != nil {
		result.Message = fmt.Sprintf("%s: %v", path, err)
		return result
	}

	result.Passed = true
	result.Message = fmt.Sprintf("%s (%d entries)", path, len(doc.Entries))
	return result
}

// CheckEmailDelivery verifies the email sender is configured.
func CheckEmailDelivery(cfg notify.Config) CheckResult {
	if !notify.NewEmailSender(cfg).Available() {
		return CheckResult{
			Name:    "Email delivery",
			Passed:  false,
			Message: "not configured (set OPENICONS_EMAIL_API_KEY, OPENICONS_EMAIL_FROM and OPENICONS_EMAIL_TO)",
		}
	}
	return CheckResult{
		Name:    "Email delivery",
		Passed:  true,
		Message: fmt.Sprintf("%s -> %s", cfg.From, cfg.To),
	}
}

// CheckWebhook reports whether the automation webhook is configured.
func CheckWebhook(cfg notify.Config) CheckResult {
	if !notify.NewWebhookSender(cfg).Available() {
		return CheckResult{
			Name:     "Automation webhook",
			Optional: true,
			Message:  "not configured (optional)",
		}
	}
	return CheckResult{
		Name:     "Automation webhook",
		Passed:   true,
		Optional: true,
		Message:  "configured",
	}
}

// FormatReport formats the health report for console output
func FormatReport(report *HealthReport) string {
	var sb strings.Builder

	for _, check := range report.Checks {
		switch {
		case check.Passed:
			fmt.Fprintf(&sb, "✓ %s: %s\n", check.Name, check.Message)
		case check.Optional:
			fmt.Fprintf(&sb, "○ %s: %s\n", check.Name, check.Message)
		default:
			fmt.Fprintf(&sb, "✗ %s: %s\n", check.Name, check.Message)
		}
	}

	return sb.String()
}
