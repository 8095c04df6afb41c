// Package catalog lists the data types offered for transfer and tracks which are selected.
package catalog

import (
	"fmt"
	"strings"

	"github.com/verte-zerg/datamover/internal/transfer"
)

// Item is one data type found on the source device.
type Item struct {
	ID     string
	Name   string
	SizeMB float64
	Items  int
}

// Default is the mock inventory of the source device.
func Default() []Item {
	return []Item{
		{ID: "contacts", Name: "Contacts", SizeMB: 5, Items: 584},
		{ID: "calendar", Name: "Calendar Events", SizeMB: 2, Items: 210},
		{ID: "photos", Name: "Photos", SizeMB: 65, Items: 1234},
		{ID: "videos", Name: "Videos", SizeMB: 120, Items: 88},
		{ID: "documents", Name: "Documents", SizeMB: 8, Items: 46},
	}
}

// Validate checks ids are unique ignoring case and sizes positive.
func Validate(items []Item) error {
	if len(items) == 0 {
		return fmt.Errorf("catalog is empty")
	}
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		if strings.TrimSpace(it.ID) == "" {
			return fmt.Errorf("category %q has no id", it.Name)
		}
		key := strings.ToLower(it.ID)
		if _, ok := seen[key]; ok {
			return fmt.Errorf("duplicate category id %q", it.ID)
		}
		seen[key] = struct{}{}
		if !(it.SizeMB > 0) {
			return fmt.Errorf("category %q must have size-mb > 0", it.ID)
		}
	}
	return nil
}

// Selection tracks checked items. The zero value has nothing selected.
type Selection struct {
	items    []Item
	selected map[string]bool
}

// NewSelection starts with every item selected.
func NewSelection(items []Item) *Selection {
	s := &Selection{
		items:    append([]Item(nil), items...),
		selected: make(map[string]bool, len(items)),
	}
	s.SetAll(true)
	return s
}

// Items returns the catalog in display order.
func (s *Selection) Items() []Item {
	return s.items
}

// IsSelected reports whether id is checked.
func (s *Selection) IsSelected(id string) bool {
	return s.selected[id]
}

// Toggle flips one item. Unknown ids are ignored.
func (s *Selection) Toggle(id string) {
	for _, it := range s.items {
		if it.ID == id {
			s.selected[id] = !s.selected[id]
			return
		}
	}
}

// SetAll checks or unchecks every item.
func (s *Selection) SetAll(v bool) {
	if s.selected == nil {
		s.selected = map[string]bool{}
	}
	for _, it := range s.items {
		s.selected[it.ID] = v
	}
}

// ToggleAll selects everything unless everything is already selected.
func (s *Selection) ToggleAll() {
	s.SetAll(!s.AllSelected())
}

// Count returns the number of checked items.
func (s *Selection) Count() int {
	n := 0
	for _, it := range s.items {
		if s.selected[it.ID] {
			n++
		}
	}
	return n
}

// AllSelected is true when every item is checked.
func (s *Selection) AllSelected() bool {
	return len(s.items) > 0 && s.Count() == len(s.items)
}

// Indeterminate is true when some but not all items are checked.
func (s *Selection) Indeterminate() bool {
	n := s.Count()
	return n > 0 && n < len(s.items)
}

// SelectedIDs returns checked ids in catalog order.
func (s *Selection) SelectedIDs() []string {
	ids := make([]string, 0, len(s.items))
	for _, it := range s.items {
		if s.selected[it.ID] {
			ids = append(ids, it.ID)
		}
	}
	return ids
}

// SelectedSizeMB sums the checked items.
func (s *Selection) SelectedSizeMB() float64 {
	total := 0.0
	for _, it := range s.items {
		if s.selected[it.ID] {
			total += it.SizeMB
		}
	}
	return total
}

// Categories converts the checked items to transfer categories in catalog order.
func (s *Selection) Categories() []transfer.Category {
	cats := make([]transfer.Category, 0, len(s.items))
	for _, it := range s.items {
		if s.selected[it.ID] {
			cats = append(cats, transfer.Category{Name: it.Name, SizeMB: it.SizeMB})
		}
	}
	return cats
}

// Select builds a selection from a comma-separated id list. An empty list selects everything.
func Select(items []Item, ids string) (*Selection, error) {
	s := NewSelection(items)
	ids = strings.TrimSpace(ids)
	if ids == "" {
		return s, nil
	}
	s.SetAll(false)
	for _, part := range strings.Split(ids, ",") {
		want := strings.TrimSpace(part)
		if want == "" {
			continue
		}
		id, ok := lookupID(items, want)
		if !ok {
			return nil, fmt.Errorf("unknown category %q (available: %s)", want, strings.Join(itemIDs(items), ", "))
		}
		s.selected[id] = true
	}
	return s, nil
}

// lookupID matches want against the catalog ids ignoring case.
func lookupID(items []Item, want string) (string, bool) {
	for _, it := range items {
		if strings.EqualFold(it.ID, want) {
			return it.ID, true
		}
	}
	return "", false
}

func itemIDs(items []Item) []string {
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	return ids
}
