package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ConfigValueType defines the expected type for a configuration value.
type ConfigValueType int

const (
	TypeBool ConfigValueType = iota
	TypeInt
	TypeDuration
	TypeString
	TypeEnum
)

// String returns the string representation of ConfigValueType.
func (t ConfigValueType) String() string {
	switch t {
	case TypeBool:
		return "bool"
	case TypeInt:
		return "int"
	case TypeDuration:
		return "duration"
	case TypeString:
		return "string"
	case TypeEnum:
		return "enum"
	default:
		return "unknown"
	}
}

// ConfigKeySchema defines a known configuration key with its expected type and validation rules.
type ConfigKeySchema struct {
	Path          string          // Key name (e.g., "changelog_url")
	Type          ConfigValueType // Expected value type for validation
	AllowedValues []string        // Valid values for enum types (empty for non-enums)
	Description   string          // Human-readable description for help text
	Default       interface{}     // Default value
	Secret        bool            // Redacted when displayed
}

// EnvVar returns the environment variable that overrides this key.
func (s ConfigKeySchema) EnvVar() string {
	return EnvPrefix + strings.ToUpper(s.Path)
}

// KnownKeys is the registry of all known configuration keys with their schemas.
var KnownKeys = map[string]ConfigKeySchema{
	"port": {
		Path:        "port",
		Type:        TypeInt,
		Description: "HTTP listen port",
		Default:     8080,
	},
	"environment": {
		Path:          "environment",
		Type:          TypeEnum,
		AllowedValues: []string{"development", "production", "test"},
		Description:   "Runtime environment; error details are hidden in production",
		Default:       "development",
	},
	"changelog_url": {
		Path:        "changelog_url",
		Type:        TypeString,
		Description: "Remote changelog JSON (raw URL or GitHub contents API URL)",
		Default:     "",
	},
	"changelog_token": {
		Path:        "changelog_token",
		Type:        TypeString,
		Description: "GitHub token for private changelog repositories",
		Default:     "",
		Secret:      true,
	},
	"changelog_fallback_path": {
		Path:        "changelog_fallback_path",
		Type:        TypeString,
		Description: "Local changelog file used when the remote is unavailable (.json, .yaml or .md)",
		Default:     "CHANGELOG.json",
	},
	"changelog_timeout": {
		Path:        "changelog_timeout",
		Type:        TypeDuration,
		Description: "Timeout for the remote changelog fetch",
		Default:     10 * time.Second,
	},
	"changelog_cache_ttl": {
		Path:        "changelog_cache_ttl",
		Type:        TypeDuration,
		Description: "How long a fetched changelog is served without revalidation (0 disables caching)",
		Default:     time.Hour,
	},
	"changelog_max_stale": {
		Path:        "changelog_max_stale",
		Type:        TypeDuration,
		Description: "How long past the TTL a stale changelog may be served while refreshing",
		Default:     24 * time.Hour,
	},
	"contact_rate_limit": {
		Path:        "contact_rate_limit",
		Type:        TypeInt,
		Description: "Contact submissions allowed per client per window",
		Default:     3,
	},
	"contact_rate_window": {
		Path:        "contact_rate_window",
		Type:        TypeDuration,
		Description: "Contact rate limit window",
		Default:     time.Hour,
	},
	"email_api_url": {
		Path:        "email_api_url",
		Type:        TypeString,
		Description: "Transactional email send endpoint",
		Default:     "https://api.resend.com/emails",
	},
	"email_api_key": {
		Path:        "email_api_key",
		Type:        TypeString,
		Description: "Transactional email API key",
		Default:     "",
		Secret:      true,
	},
	"email_from": {
		Path:        "email_from",
		Type:        TypeString,
		Description: "Sender address for contact notifications",
		Default:     "",
	},
	"email_to": {
		Path:        "email_to",
		Type:        TypeString,
		Description: "Recipient address for contact notifications",
		Default:     "",
	},
	"webhook_url": {
		Path:        "webhook_url",
		Type:        TypeString,
		Description: "Automation webhook receiving a JSON copy of each submission (optional)",
		Default:     "",
		Secret:      true,
	},
	"webhook_timeout": {
		Path:        "webhook_timeout",
		Type:        TypeDuration,
		Description: "Timeout for outbound email and webhook requests",
		Default:     10 * time.Second,
	},
}

// SortedKeys returns the known key names in alphabetical order.
func SortedKeys() []string {
	keys := make([]string, 0, len(KnownKeys))
	for k := range KnownKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ErrUnknownKey is returned when trying to access an unknown configuration key.
type ErrUnknownKey struct {
	Key string
}

func (e ErrUnknownKey) Error() string {
	return "unknown configuration key: " + e.Key
}

// GetKeySchema returns the schema for a known configuration key.
// Returns ErrUnknownKey if the key is not in the registry.
func GetKeySchema(path string) (ConfigKeySchema, error) {
	schema, ok := KnownKeys[path]
	if !ok {
		return ConfigKeySchema{}, ErrUnknownKey{Key: path}
	}
	return schema, nil
}

// ParsedValue represents a configuration value after type checking.
type ParsedValue struct {
	Raw    string      // Original string input
	Parsed interface{} // Value converted to correct type
	Type   ConfigValueType
}

// ValidateValue validates a string value against the schema for a given key.
// Returns the parsed value or an error with details about what's wrong.
func ValidateValue(key, value string) (ParsedValue, error) {
	schema, err := GetKeySchema(key)
	if err != nil {
		return ParsedValue{}, err
	}
	return validateAgainstSchema(schema, value)
}

// validateAgainstSchema validates a value against a specific schema.
func validateAgainstSchema(schema ConfigKeySchema, value string) (ParsedValue, error) {
	switch schema.Type {
	case TypeBool:
		return parseBoolValue(value)
	case TypeInt:
		return parseIntValue(value)
	case TypeDuration:
		return parseDurationValue(value)
	case TypeEnum:
		return parseEnumValue(schema, value)
	case TypeString:
		return ParsedValue{Raw: value, Parsed: value, Type: TypeString}, nil
	default:
		return ParsedValue{}, fmt.Errorf("unsupported type: %v", schema.Type)
	}
}

// parseBoolValue parses and validates a boolean value.
func parseBoolValue(value string) (ParsedValue, error) {
	switch strings.ToLower(value) {
	case "true":
		return ParsedValue{Raw: value, Parsed: true, Type: TypeBool}, nil
	case "false":
		return ParsedValue{Raw: value, Parsed: false, Type: TypeBool}, nil
	default:
		return ParsedValue{}, fmt.Errorf("invalid boolean: %q (expected true or false)", value)
	}
}

// parseIntValue parses and validates an integer value.
func parseIntValue(value string) (ParsedValue, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return ParsedValue{}, fmt.Errorf("invalid integer: %q", value)
	}
	return ParsedValue{Raw: value, Parsed: n, Type: TypeInt}, nil
}

// parseDurationValue parses and validates a duration value.
func parseDurationValue(value string) (ParsedValue, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		return ParsedValue{}, fmt.Errorf("invalid duration: %q (examples: 30s, 5m, 1h)", value)
	}
	return ParsedValue{Raw: value, Parsed: d, Type: TypeDuration}, nil
}

// parseEnumValue validates a value against allowed enum options.
func parseEnumValue(schema ConfigKeySchema, value string) (ParsedValue, error) {
	for _, allowed := range schema.AllowedValues {
		if value == allowed {
			return ParsedValue{Raw: value, Parsed: value, Type: TypeEnum}, nil
		}
	}
	return ParsedValue{}, fmt.Errorf(
		"invalid value: %q (valid options: %s)",
		value,
		strings.Join(schema.AllowedValues, ", "),
	)
}
