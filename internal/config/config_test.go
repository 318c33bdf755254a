package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/davido-builds/openicons-site/internal/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate runs the test in an empty directory with the legacy variables cleared.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("CHANGELOG_URL", "")
	t.Setenv("GITHUB_TOKEN", "")
	return dir
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := LoadWithOptions(LoadOptions{SkipWarnings: true})
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.False(t, cfg.IsProduction())
	assert.Empty(t, cfg.Path)

	assert.Empty(t, cfg.Changelog.URL)
	assert.Equal(t, "CHANGELOG.json", cfg.Changelog.FallbackPath)
	assert.Equal(t, 10*time.Second, cfg.Changelog.Timeout)
	assert.Equal(t, time.Hour, cfg.Changelog.CacheTTL)
	assert.Equal(t, 24*time.Hour, cfg.Changelog.MaxStale)

	assert.Equal(t, 3, cfg.Contact.RateLimit)
	assert.Equal(t, time.Hour, cfg.Contact.RateWindow)

	assert.Equal(t, notify.DefaultEmailAPIURL, cfg.Notify.EmailAPIURL)
	assert.Equal(t, notify.DefaultTimeout, cfg.Notify.Timeout)
	assert.Empty(t, cfg.Notify.EmailAPIKey)
}

func TestLoad_Files(t *testing.T) {
	tests := map[string]struct {
		name    string
		content string
		check   func(t *testing.T, cfg *Configuration)
	}{
		"yaml file": {
			name: "site.yml",
			content: `port: 9090
changelog_url: https://example.com/CHANGELOG.json
changelog_cache_ttl: 30m
contact_rate_limit: 5
`,
			check: func(t *testing.T, cfg *Configuration) {
				assert.Equal(t, 9090, cfg.Port)
				assert.Equal(t, "https://example.com/CHANGELOG.json", cfg.Changelog.URL)
				assert.Equal(t, 30*time.Minute, cfg.Changelog.CacheTTL)
				assert.Equal(t, 5, cfg.Contact.RateLimit)
				assert.Equal(t, time.Hour, cfg.Contact.RateWindow)
			},
		},
		"json file": {
			name:    "site.json",
			content: `{"port": 7070, "environment": "production", "contact_rate_window": "10m"}`,
			check: func(t *testing.T, cfg *Configuration) {
				assert.Equal(t, 7070, cfg.Port)
				assert.True(t, cfg.IsProduction())
				assert.Equal(t, 10*time.Minute, cfg.Contact.RateWindow)
			},
		},
		"empty yaml file keeps defaults": {
			name:    "empty.yml",
			content: "",
			check: func(t *testing.T, cfg *Configuration) {
				assert.Equal(t, 8080, cfg.Port)
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			dir := isolate(t)
			path := writeFile(t, dir, tt.name, tt.content)

			cfg, err := LoadWithOptions(LoadOptions{ConfigPath: path, SkipWarnings: true})
			require.NoError(t, err)
			assert.Equal(t, path, cfg.Path)
			tt.check(t, cfg)
		})
	}
}

func TestLoad_DiscoversProjectConfig(t *testing.T) {
	dir := isolate(t)
	writeFile(t, dir, "openicons.json", `{"port": 7000}`)
	writeFile(t, dir, "openicons.yml", "port: 7001\n")

	assert.Equal(t, "openicons.yml", FindProjectConfig())

	cfg, err := LoadWithOptions(LoadOptions{SkipWarnings: true})
	require.NoError(t, err)
	assert.Equal(t, 7001, cfg.Port)
	assert.Equal(t, "openicons.yml", cfg.Path)
}

func TestLoad_MissingExplicitPath(t *testing.T) {
	dir := isolate(t)

	_, err := Load(filepath.Join(dir, "missing.yml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := isolate(t)
	path := writeFile(t, dir, "bad.yml", "port: 8080\n  environment: [unclosed\n")

	_, err := Load(path)
	require.Error(t, err)

	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, path, vErr.FilePath)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	dir := isolate(t)
	path := writeFile(t, dir, "site.yml", "port: 9090\nchangelog_timeout: 5s\n")
	t.Setenv("OPENICONS_PORT", "9999")
	t.Setenv("OPENICONS_CHANGELOG_TIMEOUT", "2s")

	cfg, err := LoadWithOptions(LoadOptions{ConfigPath: path, SkipWarnings: true})
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Port)
	assert.Equal(t, 2*time.Second, cfg.Changelog.Timeout)
}

func TestLoad_LegacyEnvironment(t *testing.T) {
	tests := map[string]struct {
		env       map[string]string
		wantURL   string
		wantToken string
	}{
		"legacy variables apply": {
			env: map[string]string{
				"CHANGELOG_URL": "https://legacy.example.com/CHANGELOG.json",
				"GITHUB_TOKEN":  "ghp_legacy",
			},
			wantURL:   "https://legacy.example.com/CHANGELOG.json",
			wantToken: "ghp_legacy",
		},
		"prefixed variable wins": {
			env: map[string]string{
				"CHANGELOG_URL":           "https://legacy.example.com/CHANGELOG.json",
				"OPENICONS_CHANGELOG_URL": "https://new.example.com/CHANGELOG.json",
			},
			wantURL: "https://new.example.com/CHANGELOG.json",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			isolate(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := LoadWithOptions(LoadOptions{SkipWarnings: true})
			require.NoError(t, err)
			assert.Equal(t, tt.wantURL, cfg.Changelog.URL)
			assert.Equal(t, tt.wantToken, cfg.Changelog.Token)
		})
	}
}

func TestLoad_BadEnvironmentValue(t *testing.T) {
	isolate(t)
	t.Setenv("OPENICONS_PORT", "eighty")

	_, err := LoadWithOptions(LoadOptions{SkipWarnings: true})
	require.Error(t, err)

	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "OPENICONS_PORT", vErr.FilePath)
	assert.Contains(t, vErr.Message, "invalid integer")
}

func TestLoad_UnknownEnvironmentVariable(t *testing.T) {
	isolate(t)
	t.Setenv("OPENICONS_BOGUS_SETTING", "1")

	var buf bytes.Buffer
	_, err := LoadWithOptions(LoadOptions{WarningWriter: &buf})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "ignoring unknown environment variable OPENICONS_BOGUS_SETTING")

	buf.Reset()
	_, err = LoadWithOptions(LoadOptions{WarningWriter: &buf, SkipWarnings: true})
	require.NoError(t, err)
	assert.Empty(t, buf.String())
}

func TestLoad_ValidationFailures(t *testing.T) {
	tests := map[string]struct {
		content   string
		wantField string
		wantMsg   string
	}{
		"port out of range": {
			content:   "port: 0\n",
			wantField: "port",
			wantMsg:   "must be at least 1",
		},
		"port too large": {
			content:   "port: 70000\n",
			wantField: "port",
			wantMsg:   "must be at most 65535",
		},
		"unknown environment": {
			content:   "environment: staging\n",
			wantField: "environment",
			wantMsg:   "must be one of: development, production, test",
		},
		"email key without sender": {
			content:   "email_api_key: re_123\nemail_to: team@example.com\n",
			wantField: "email_from",
			wantMsg:   "is required when email_api_key is set",
		},
		"malformed webhook url": {
			content:   "webhook_url: not a url\n",
			wantField: "webhook_url",
			wantMsg:   "must be a valid URL",
		},
		"zero rate limit": {
			content:   "contact_rate_limit: 0\n",
			wantField: "contact_rate_limit",
			wantMsg:   "must be greater than 0",
		},
		"empty fallback path": {
			content:   "changelog_fallback_path: \"\"\n",
			wantField: "changelog_fallback_path",
			wantMsg:   "is required",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			dir := isolate(t)
			path := writeFile(t, dir, "site.yml", tt.content)

			_, err := Load(path)
			require.Error(t, err)

			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr), "got %v", err)
			assert.Equal(t, tt.wantField, vErr.Field)
			assert.Equal(t, tt.wantMsg, vErr.Message)
			assert.Contains(t, err.Error(), "config validation failed")
		})
	}
}

func TestConfiguration_Values(t *testing.T) {
	isolate(t)
	t.Setenv("OPENICONS_EMAIL_API_KEY", "re_secret")
	t.Setenv("OPENICONS_EMAIL_FROM", "site@example.com")
	t.Setenv("OPENICONS_EMAIL_TO", "team@example.com")

	cfg, err := LoadWithOptions(LoadOptions{SkipWarnings: true})
	require.NoError(t, err)

	values := cfg.Values()
	assert.Len(t, values, len(KnownKeys))
	assert.Equal(t, "********", values["email_api_key"])
	assert.Equal(t, "", values["changelog_token"], "empty secrets are shown as empty")
	assert.Equal(t, "site@example.com", values["email_from"])
	assert.Equal(t, "8080", values["port"])
	assert.Equal(t, "1h0m0s", values["changelog_cache_ttl"])
}

func TestConfiguration_ChangelogSettings(t *testing.T) {
	cfg := &Configuration{
		Changelog: ChangelogConfig{
			URL:          "https://example.com/c.json",
			Token:        "tok",
			FallbackPath: "CHANGELOG.md",
			Timeout:      3 * time.Second,
			CacheTTL:     time.Minute,
			MaxStale:     time.Hour,
		},
	}

	src := cfg.SourceConfig("openicons-site/1.0")
	assert.Equal(t, "https://example.com/c.json", src.URL)
	assert.Equal(t, "tok", src.Token)
	assert.Equal(t, "CHANGELOG.md", src.FallbackPath)
	assert.Equal(t, 3*time.Second, src.Timeout)
	assert.Equal(t, "openicons-site/1.0", src.UserAgent)

	cache := cfg.CacheConfig()
	assert.Equal(t, time.Minute, cache.TTL)
	assert.Equal(t, time.Hour, cache.MaxStale)
}

func TestGetDefaultConfigTemplate_LoadsAsDefaults(t *testing.T) {
	dir := isolate(t)
	template := GetDefaultConfigTemplate()
	for _, key := range SortedKeys() {
		assert.Contains(t, template, key+":")
	}

	path := writeFile(t, dir, "openicons.yml", template)
	fromTemplate, err := LoadWithOptions(LoadOptions{ConfigPath: path, SkipWarnings: true})
	require.NoError(t, err)

	require.NoError(t, os.Remove(path))
	defaults, err := LoadWithOptions(LoadOptions{SkipWarnings: true})
	require.NoError(t, err)

	fromTemplate.Path = ""
	assert.Equal(t, defaults, fromTemplate)
}

func TestValidateValue(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		key     string
		value   string
		want    interface{}
		wantErr string
	}{
		"int":              {key: "port", value: "3000", want: 3000},
		"bad int":          {key: "port", value: "3k", wantErr: "invalid integer"},
		"duration":         {key: "changelog_timeout", value: "30s", want: 30 * time.Second},
		"bad duration":     {key: "changelog_cache_ttl", value: "soon", wantErr: "invalid duration"},
		"enum":             {key: "environment", value: "production", want: "production"},
		"bad enum":         {key: "environment", value: "prod", wantErr: "valid options: development, production, test"},
		"string":           {key: "email_to", value: "a@b.c", want: "a@b.c"},
		"unknown key":      {key: "max_retries", value: "3", wantErr: "unknown configuration key: max_retries"},
		"secret is string": {key: "email_api_key", value: "re_x", want: "re_x"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, err := ValidateValue(tt.key, tt.value)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Parsed)
			assert.Equal(t, tt.value, got.Raw)
		})
	}
}

func TestConfigKeySchema_EnvVar(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "OPENICONS_CHANGELOG_URL", KnownKeys["changelog_url"].EnvVar())
	assert.Equal(t, "OPENICONS_PORT", KnownKeys["port"].EnvVar())
}
