package config

import (
	"fmt"
	"strings"
	"time"
)

// GetDefaults returns the default configuration values keyed by config key.
func GetDefaults() map[string]interface{} {
	defaults := make(map[string]interface{}, len(KnownKeys))
	for key, schema := range KnownKeys {
		defaults[key] = schema.Default
	}
	return defaults
}

// GetDefaultConfigTemplate returns a commented openicons.yml template
// listing every known key with its default.
func GetDefaultConfigTemplate() string {
	var b strings.Builder
	b.WriteString("# openicons-site configuration\n")
	b.WriteString("# Every key can be overridden with an OPENICONS_<KEY> environment variable.\n\n")

	for _, key := range SortedKeys() {
		schema := KnownKeys[key]
		fmt.Fprintf(&b, "# %s\n", schema.Description)
		fmt.Fprintf(&b, "%s: %s\n\n", key, formatDefault(schema.Default))
	}
	return b.String()
}

// formatDefault renders a default value as a YAML scalar.
func formatDefault(v interface{}) string {
	switch val := v.(type) {
	case string:
		return fmt.Sprintf("%q", val)
	case time.Duration:
		return val.String()
	default:
		return fmt.Sprintf("%v", val)
	}
}
