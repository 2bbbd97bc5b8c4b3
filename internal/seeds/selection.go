// Package seeds implements seed search and the ordered seed selection a playlist is built from.
package seeds

import (
	"context"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/moodify/internal/models"
	"github.com/desertthunder/moodify/internal/shared"
)

// MaxSeeds is the most artists and tracks a recommendation accepts.
const MaxSeeds = 5

// Selection is the ordered set of chosen seeds. The zero value is empty and ready to use.
//
// It is not safe for concurrent use; the UI model owns it.
type Selection struct {
	items []models.SeedItem
}

// NewSelection creates a selection holding items, applying the same rules as [Selection.Select].
func NewSelection(items ...models.SeedItem) (*Selection, error) {
	s := &Selection{}
	for _, item := range items {
		if err := s.Select(item); err != nil {
			return s, err
		}
	}
	return s, nil
}

// Select appends item. A full selection returns [shared.ErrSelectionFull]; an item already
// selected is ignored.
func (s *Selection) Select(item models.SeedItem) error {
	if len(s.items) >= MaxSeeds {
		return shared.ErrSelectionFull
	}
	if s.Contains(item) {
		return nil
	}
	s.items = append(s.items, item)
	return nil
}

// AddDefault adds a preselected seed. Defaults obey the same cap and duplicate rule as user picks,
// although earlier clients appended them unconditionally and could exceed five seeds.
func (s *Selection) AddDefault(item models.SeedItem) error {
	return s.Select(item)
}

// Deselect removes item by identity and reports whether it was selected.
func (s *Selection) Deselect(item models.SeedItem) bool {
	i := s.index(item)
	if i < 0 {
		return false
	}
	s.items = slices.Delete(s.items, i, i+1)
	return true
}

// Contains reports whether a seed with item's identity is selected.
func (s *Selection) Contains(item models.SeedItem) bool {
	return s.index(item) >= 0
}

func (s *Selection) index(item models.SeedItem) int {
	return slices.IndexFunc(s.items, func(it models.SeedItem) bool {
		return it.Key() == item.Key()
	})
}

// Items returns a copy of the selection in insertion order.
func (s *Selection) Items() []models.SeedItem {
	return slices.Clone(s.items)
}

// Len is the number of selected seeds.
func (s *Selection) Len() int {
	return len(s.items)
}

// Full reports whether another seed would be rejected.
func (s *Selection) Full() bool {
	return len(s.items) >= MaxSeeds
}

// Clear removes every seed.
func (s *Selection) Clear() {
	s.items = nil
}

// IDs returns the identifiers of the selected seeds of one kind, in selection order.
func (s *Selection) IDs(kind models.ItemKind) []string {
	ids := []string{}
	for _, it := range s.items {
		if it.Kind == kind {
			ids = append(ids, it.ID)
		}
	}
	return ids
}

// DefaultsSource fetches the default seeds.
type DefaultsSource interface {
	DefaultArtists(ctx context.Context) ([]models.SeedItem, error)
}

// LoadDefaults fetches the default seeds once and adds them to sel until it is full.
// It returns how many were added.
func LoadDefaults(ctx context.Context, src DefaultsSource, sel *Selection, logger *log.Logger) (int, error) {
	items, err := src.DefaultArtists(ctx)
	if err != nil {
		return 0, err
	}
	return AddDefaults(sel, items, logger), nil
}

// AddDefaults adds already fetched default seeds to sel until it is full.
func AddDefaults(sel *Selection, items []models.SeedItem, logger *log.Logger) int {
	added := 0
	for _, item := range items {
		before := sel.Len()
		if err := sel.AddDefault(item); err != nil {
			logger.Warn("dropping default seeds", "remaining", len(items)-added, "err", err)
			break
		}
		if sel.Len() > before {
			added++
		}
	}
	return added
}
