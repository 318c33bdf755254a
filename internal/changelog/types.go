package changelog

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Document is a parsed changelog. Entries appear in document order, which
// by convention is newest first; no re-sorting is ever performed.
type Document struct {
	Entries []Entry `json:"entries" yaml:"entries"`
}

// Entry is one version's worth of changelog content.
// Version is not required to be semver and Date is display-only free text.
type Entry struct {
	Version  string   `json:"version" yaml:"version"`
	Date     string   `json:"date" yaml:"date"`
	Sections Sections `json:"sections" yaml:"sections"`
}

// Section is a named group of items within an entry, e.g. "Added".
// An item may contain embedded "\n  • " sequences for nested bullets.
type Section struct {
	Name  string
	Items []string
}

// Sections is an insertion-ordered mapping from section name to items.
// It encodes as a JSON/YAML object whose key order matches the slice order.
type Sections []Section

// Get returns the items for the named section.
func (s Sections) Get(name string) ([]string, bool) {
	for _, sec := range s {
		if sec.Name == name {
			return sec.Items, true
		}
	}
	return nil, false
}

// Set assigns items to the named section. An existing section keeps its
// position and has its items replaced; a new one is appended.
func (s *Sections) Set(name string, items []string) {
	for i := range *s {
		if (*s)[i].Name == name {
			(*s)[i].Items = items
			return
		}
	}
	*s = append(*s, Section{Name: name, Items: items})
}

// Names returns section names in order.
func (s Sections) Names() []string {
	names := make([]string, len(s))
	for i, sec := range s {
		names[i] = sec.Name
	}
	return names
}

// ItemCount returns the total number of items across all sections.
func (s Sections) ItemCount() int {
	n := 0
	for _, sec := range s {
		n += len(sec.Items)
	}
	return n
}

// MarshalJSON writes the sections as an object, preserving order.
func (s Sections) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, sec := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(sec.Name)
		if err != nil {
			return nil, err
		}
		items := sec.Items
		if items == nil {
			items = []string{}
		}
		val, err := json.Marshal(items)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object of string arrays, preserving key order.
// Duplicate keys keep the first position and the last value.
func (s *Sections) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*s = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("sections: expected object, got %v", tok)
	}

	out := Sections{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("sections: expected string key, got %v", keyTok)
		}
		var items []string
		if err := dec.Decode(&items); err != nil {
			return fmt.Errorf("sections.%s: %w", key, err)
		}
		out.Set(key, items)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*s = out
	return nil
}

// MarshalYAML writes the sections as a mapping node, preserving order.
func (s Sections) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, sec := range s {
		items := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range sec.Items {
			items.Content = append(items.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: item})
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: sec.Name},
			items,
		)
	}
	return node, nil
}

// UnmarshalYAML reads a mapping of string sequences, preserving key order.
func (s *Sections) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("sections: line %d: expected mapping", value.Line)
	}

	out := Sections{}
	for i := 0; i+1 < len(value.Content); i += 2 {
		keyNode, valNode := value.Content[i], value.Content[i+1]
		var items []string
		if err := valNode.Decode(&items); err != nil {
			return fmt.Errorf("sections.%s: %w", keyNode.Value, err)
		}
		out.Set(keyNode.Value, items)
	}

	*s = out
	return nil
}

// ListVersions returns all version identifiers in document order.
func (d *Document) ListVersions() []string {
	versions := make([]string, len(d.Entries))
	for i, e := range d.Entries {
		versions[i] = e.Version
	}
	return versions
}

// normalize guarantees a non-nil entries slice so an empty document
// encodes as {"entries":[]} rather than null.
func (d *Document) normalize() *Document {
	if d.Entries == nil {
		d.Entries = []Entry{}
	}
	for i := range d.Entries {
		if d.Entries[i].Sections == nil {
			d.Entries[i].Sections = Sections{}
		}
	}
	return d
}
