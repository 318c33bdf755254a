// Package config provides configuration management for openicons-site using koanf.
// Configuration is loaded with priority: environment variables > config file
// (openicons.yml, openicons.yaml or openicons.json, or an explicit path) > defaults.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/davido-builds/openicons-site/internal/changelog"
	"github.com/davido-builds/openicons-site/internal/contact"
	"github.com/davido-builds/openicons-site/internal/notify"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment variables that override config keys.
const EnvPrefix = "OPENICONS_"

// legacyEnv maps unprefixed variables from earlier deployments to config keys.
// Prefixed variables take precedence.
var legacyEnv = map[string]string{
	"CHANGELOG_URL": "changelog_url",
	"GITHUB_TOKEN":  "changelog_token",
}

// terminalEnv lists prefixed variables read by the CLI rather than the config.
var terminalEnv = map[string]bool{
	EnvPrefix + "ASCII": true,
}

// ChangelogConfig configures changelog retrieval and caching.
type ChangelogConfig struct {
	URL          string        `koanf:"changelog_url" validate:"omitempty,url"`
	Token        string        `koanf:"changelog_token"`
	FallbackPath string        `koanf:"changelog_fallback_path" validate:"required"`
	Timeout      time.Duration `koanf:"changelog_timeout" validate:"gt=0"`
	CacheTTL     time.Duration `koanf:"changelog_cache_ttl" validate:"gte=0"`
	MaxStale     time.Duration `koanf:"changelog_max_stale" validate:"gte=0"`
}

// Configuration represents the site backend configuration.
type Configuration struct {
	Port        int    `koanf:"port" validate:"min=1,max=65535"`
	Environment string `koanf:"environment" validate:"oneof=development production test"`

	Changelog ChangelogConfig `koanf:",squash"`
	Contact   contact.Config  `koanf:",squash"`
	Notify    notify.Config   `koanf:",squash"`

	// Path is the config file that was loaded, if any.
	Path string `koanf:"-"`
}

// LoadOptions configures how configuration is loaded
type LoadOptions struct {
	// ConfigPath overrides config file discovery. A missing explicit path is an error.
	ConfigPath string
	// WarningWriter receives warnings about unknown variables (default: os.Stderr)
	WarningWriter io.Writer
	// SkipWarnings suppresses warnings
	SkipWarnings bool
}

// Load loads configuration from the config file and environment.
// Priority: Environment variables > Config file > Defaults
func Load(configPath string) (*Configuration, error) {
	return LoadWithOptions(LoadOptions{ConfigPath: configPath})
}

// LoadWithOptions loads configuration with custom options
func LoadWithOptions(opts LoadOptions) (*Configuration, error) {
	k := koanf.New(".")
	warningWriter := getWarningWriter(opts.WarningWriter)

	loadDefaults(k)

	path, err := loadFileConfig(k, opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	loadLegacyEnvironment(k)

	if err := loadEnvironmentConfig(k, warningWriter, opts.SkipWarnings); err != nil {
		return nil, err
	}

	cfg, err := finalizeConfig(k, path)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// getWarningWriter returns the warning writer or defaults to stderr
func getWarningWriter(w io.Writer) io.Writer {
	if w == nil {
		return os.Stderr
	}
	return w
}

// loadDefaults applies default configuration values
func loadDefaults(k *koanf.Koanf) {
	for key, value := range GetDefaults() {
		k.Set(key, value)
	}
}

// loadFileConfig loads the explicit config file, or the first project config
// found in the working directory. Returns the path that was loaded.
func loadFileConfig(k *koanf.Koanf, explicitPath string) (string, error) {
	path := explicitPath
	if path == "" {
		path = FindProjectConfig()
		if path == "" {
			return "", nil
		}
	} else if !fileExists(path) {
		return "", fmt.Errorf("config file %s: %w", path, os.ErrNotExist)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := k.Load(file.Provider(path), json.Parser()); err != nil {
			return "", fmt.Errorf("failed to load config %s: %w", path, err)
		}
	default:
		if err := ValidateYAMLSyntax(path); err != nil {
			return "", fmt.Errorf("validating YAML syntax: %w", err)
		}
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return "", fmt.Errorf("failed to load config %s: %w", path, err)
		}
	}
	return path, nil
}

// loadLegacyEnvironment applies unprefixed variables from earlier deployments.
func loadLegacyEnvironment(k *koanf.Koanf) {
	for name, key := range legacyEnv {
		if v := os.Getenv(name); v != "" {
			k.Set(key, v)
		}
	}
}

// loadEnvironmentConfig loads environment variable overrides. Values are
// type-checked against the key registry so a bad variable is reported by name.
func loadEnvironmentConfig(k *koanf.Koanf, warningWriter io.Writer, skipWarnings bool) error {
	var badValue error
	provider := env.Provider(EnvPrefix, ".", func(s string) string {
		if terminalEnv[s] {
			return ""
		}
		key := envTransform(s)
		schema, err := GetKeySchema(key)
		if err != nil {
			if !skipWarnings {
				fmt.Fprintf(warningWriter, "Warning: ignoring unknown environment variable %s\n", s)
			}
			return ""
		}
		if _, err := validateAgainstSchema(schema, os.Getenv(s)); err != nil && badValue == nil {
			badValue = &ValidationError{FilePath: s, Message: err.Error()}
		}
		return key
	})

	if err := k.Load(provider, nil); err != nil {
		return fmt.Errorf("failed to load environment config: %w", err)
	}
	return badValue
}

// finalizeConfig unmarshals and validates the merged configuration.
func finalizeConfig(k *koanf.Koanf, path string) (*Configuration, error) {
	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Path = path

	source := path
	if source == "" {
		source = "config"
	}
	if err := ValidateConfigValues(&cfg, source); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// envTransform converts environment variable names to config keys
// Example: OPENICONS_CHANGELOG_URL -> changelog_url
func envTransform(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
}

// IsProduction reports whether diagnostic detail must be suppressed.
func (c *Configuration) IsProduction() bool {
	return c.Environment == "production"
}

// SourceConfig returns the changelog retrieval settings.
func (c *Configuration) SourceConfig(userAgent string) changelog.SourceConfig {
	return changelog.SourceConfig{
		URL:          c.Changelog.URL,
		Token:        c.Changelog.Token,
		FallbackPath: c.Changelog.FallbackPath,
		Timeout:      c.Changelog.Timeout,
		UserAgent:    userAgent,
	}
}

// CacheConfig returns the changelog cache policy.
func (c *Configuration) CacheConfig() changelog.CacheConfig {
	return changelog.CacheConfig{
		TTL:      c.Changelog.CacheTTL,
		MaxStale: c.Changelog.MaxStale,
	}
}

// Values returns every known key with its effective value, with secrets redacted.
func (c *Configuration) Values() map[string]string {
	raw := map[string]interface{}{
		"port":                    c.Port,
		"environment":             c.Environment,
		"changelog_url":           c.Changelog.URL,
		"changelog_token":         c.Changelog.Token,
		"changelog_fallback_path": c.Changelog.FallbackPath,
		"changelog_timeout":       c.Changelog.Timeout,
		"changelog_cache_ttl":     c.Changelog.CacheTTL,
		"changelog_max_stale":     c.Changelog.MaxStale,
		"contact_rate_limit":      c.Contact.RateLimit,
		"contact_rate_window":     c.Contact.RateWindow,
		"email_api_url":           c.Notify.EmailAPIURL,
		"email_api_key":           c.Notify.EmailAPIKey,
		"email_from":              c.Notify.From,
		"email_to":                c.Notify.To,
		"webhook_url":             c.Notify.WebhookURL,
		"webhook_timeout":         c.Notify.Timeout,
	}

	out := make(map[string]string, len(raw))
	for key, v := range raw {
		s := fmt.Sprintf("%v", v)
		if KnownKeys[key].Secret && s != "" {
			s = "********"
		}
		out[key] = s
	}
	return out
}
