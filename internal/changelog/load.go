package changelog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format identifies the encoding of a changelog document on disk.
type Format string

const (
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "markdown"
)

// FormatForPath infers the document format from a file extension.
// Unknown extensions are treated as JSON, the canonical format.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".md", ".markdown":
		return FormatMarkdown
	default:
		return FormatJSON
	}
}

// LoadFile reads a changelog document from path, decoding it according to
// its extension.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening changelog file: %w", err)
	}
	return Decode(data, FormatForPath(path))
}

// Decode parses raw bytes in the given format.
func Decode(data []byte, format Format) (*Document, error) {
	switch format {
	case FormatMarkdown:
		return ParseMarkdown(string(data)), nil
	case FormatYAML:
		return LoadYAML(bytes.NewReader(data))
	default:
		return LoadJSON(bytes.NewReader(data))
	}
}

// LoadJSON decodes a {"entries": [...]} document.
func LoadJSON(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("parsing changelog JSON: %w", err)
	}
	return doc.normalize(), nil
}

// LoadYAML decodes the YAML rendition of a document.
func LoadYAML(r io.Reader) (*Document, error) {
	var doc Document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && err != io.EOF {
		return nil, fmt.Errorf("parsing changelog YAML: %w", err)
	}
	return doc.normalize(), nil
}

// Encode writes the document in the given format. Markdown output is not
// supported; authored markdown is the input side only.
func Encode(w io.Writer, doc *Document, format Format) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encoding changelog YAML: %w", err)
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encoding changelog JSON: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}
