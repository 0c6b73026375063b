package interact

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// FAQItem is one question and its answer.
type FAQItem struct {
	Question string `yaml:"question"`
	Answer   string `yaml:"answer"`
}

// LoadFAQ decodes a YAML list of items.
func LoadFAQ(r io.Reader) ([]FAQItem, error) {
	var items []FAQItem
	if err := yaml.NewDecoder(r).Decode(&items); err != nil {
		return nil, fmt.Errorf("decode faq: %w", err)
	}
	for i, it := range items {
		if it.Question == "" {
			return nil, fmt.Errorf("faq item %d: missing question", i)
		}
	}
	return items, nil
}

// FAQ is a disclosure list with at most one answer open.
type FAQ struct {
	items []FAQItem
	open  int // -1 when all closed
}

// NewFAQ returns a FAQ with every answer closed.
func NewFAQ(items []FAQItem) *FAQ {
	return &FAQ{items: items, open: -1}
}

// Len returns the number of items.
func (f *FAQ) Len() int { return len(f.items) }

// Toggle opens item i and closes the rest; toggling the open item closes
// it.  Out-of-range indexes return false and change nothing.
func (f *FAQ) Toggle(i int) bool {
	if i < 0 || i >= len(f.items) {
		return false
	}
	if f.open == i {
		f.open = -1
	} else {
		f.open = i
	}
	return true
}

// IsOpen reports whether item i is expanded.
func (f *FAQ) IsOpen(i int) bool { return f.open == i }

// Entry is an item plus its render state.
type Entry struct {
	Index  int
	Item   FAQItem
	Open   bool
	Marker string
}

// Entries lists the items with their open state and ▼/▶ marker.
func (f *FAQ) Entries() []Entry {
	out := make([]Entry, len(f.items))
	for i, it := range f.items {
		m := "▶"
		if f.open == i {
			m = "▼"
		}
		out[i] = Entry{Index: i, Item: it, Open: f.open == i, Marker: m}
	}
	return out
}
