package config

import "os"

// ProjectConfigPaths returns the config file names looked up in the working
// directory, in priority order.
func ProjectConfigPaths() []string {
	return []string{"openicons.yml", "openicons.yaml", "openicons.json"}
}

// FindProjectConfig returns the first existing project config file, or ""
// when there is none.
func FindProjectConfig() string {
	for _, p := range ProjectConfigPaths() {
		if fileExists(p) {
			return p
		}
	}
	return ""
}

// fileExists returns true if the file exists and is readable
func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}
