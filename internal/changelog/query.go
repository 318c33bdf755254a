package changelog

import (
	"strings"

	siteerrors "github.com/davido-builds/openicons-site/internal/errors"
)

// Item is a flattened view of a single changelog item, carrying the
// version and section context needed to display it on its own.
type Item struct {
	Text    string `json:"text"`
	Section string `json:"section"`
	Version string `json:"version"`
	Date    string `json:"date,omitempty"`
}

// NormalizeVersion removes a leading "v" so "v1.2.0" and "1.2.0" match.
func NormalizeVersion(version string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(version)), "v")
}

// GetVersion retrieves a specific entry. Accepts both "v1.2.0" and "1.2.0".
// Returns a NotFound *errors.Error listing available versions on a miss.
func (d *Document) GetVersion(version string) (*Entry, error) {
	normalized := NormalizeVersion(version)

	for i := range d.Entries {
		if NormalizeVersion(d.Entries[i].Version) == normalized {
			return &d.Entries[i], nil
		}
	}

	return nil, siteerrors.VersionNotFound(version, d.ListVersions())
}

// Latest returns the first entry in document order, or nil when empty.
func (d *Document) Latest() *Entry {
	if len(d.Entries) == 0 {
		return nil
	}
	return &d.Entries[0]
}

// Items returns the entry's items flattened in section order.
func (e Entry) Items() []Item {
	items := make([]Item, 0, e.Sections.ItemCount())
	for _, sec := range e.Sections {
		for _, text := range sec.Items {
			items = append(items, Item{Text: text, Section: sec.Name, Version: e.Version, Date: e.Date})
		}
	}
	return items
}

// AllItems returns every item in document order.
func (d *Document) AllItems() []Item {
	var items []Item
	for _, e := range d.Entries {
		items = append(items, e.Items()...)
	}
	return items
}

// GetLastN returns the N most recent items, newest first.
func (d *Document) GetLastN(n int) []Item {
	if n <= 0 {
		return []Item{}
	}
	items := d.AllItems()
	if len(items) <= n {
		return items
	}
	return items[:n]
}

// ItemCount returns the total number of items across all entries.
func (d *Document) ItemCount() int {
	count := 0
	for _, e := range d.Entries {
		count += e.Sections.ItemCount()
	}
	return count
}
