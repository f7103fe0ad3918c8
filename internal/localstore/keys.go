package localstore

import (
	"sort"
	"strings"
	"time"
)

const (
	recentSearchesKey   = "recentSearches"
	pinnedCategoriesKey = "pinnedCategories"
	templatesKey        = "quickOrderTemplates"

	// MaxRecentSearches caps the recent search list.
	MaxRecentSearches = 10
)

// RecentSearches returns the saved terms, most recent first.
func (s *Store) RecentSearches() ([]string, error) {
	var terms []string
	if _, err := s.Get(recentSearchesKey, &terms); err != nil {
		return nil, err
	}
	return terms, nil
}

// AddRecentSearch moves term to the front, dropping an earlier copy and
// anything past the cap. Blank terms are ignored.
func (s *Store) AddRecentSearch(term string) ([]string, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return s.RecentSearches()
	}
	return update(s, recentSearchesKey, func(current []string) []string {
		next := make([]string, 0, MaxRecentSearches)
		next = append(next, term)
		for _, t := range current {
			if t == term {
				continue
			}
			if len(next) == MaxRecentSearches {
				break
			}
			next = append(next, t)
		}
		return next
	})
}

// ClearRecentSearches forgets every term.
func (s *Store) ClearRecentSearches() error {
	return s.Delete(recentSearchesKey)
}

// PinnedCategories returns the pinned category slugs in pin order.
func (s *Store) PinnedCategories() ([]string, error) {
	var slugs []string
	if _, err := s.Get(pinnedCategoriesKey, &slugs); err != nil {
		return nil, err
	}
	return slugs, nil
}

// TogglePinnedCategory pins slug or unpins it if already pinned. It
// reports whether slug is pinned afterwards.
func (s *Store) TogglePinnedCategory(slug string) (bool, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return false, nil
	}
	pinned := false
	_, err := update(s, pinnedCategoriesKey, func(current []string) []string {
		next := make([]string, 0, len(current)+1)
		for _, c := range current {
			if c != slug {
				next = append(next, c)
			}
		}
		if len(next) == len(current) {
			next = append(next, slug)
			pinned = true
		}
		return next
	})
	return pinned, err
}

// TemplateLine is one SKU of a saved quick order.
type TemplateLine struct {
	SKU      string `json:"sku"`
	Name     string `json:"name,omitempty"`
	Quantity int    `json:"quantity"`
}

// Template is a named quick-order SKU list.
type Template struct {
	Name    string         `json:"name"`
	Lines   []TemplateLine `json:"lines"`
	SavedAt time.Time      `json:"saved_at"`
}

// Templates lists saved templates by name.
func (s *Store) Templates() ([]Template, error) {
	byName := map[string]Template{}
	if _, err := s.Get(templatesKey, &byName); err != nil {
		return nil, err
	}
	out := make([]Template, 0, len(byName))
	for _, t := range byName {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Template loads one template.
func (s *Store) Template(name string) (Template, bool, error) {
	byName := map[string]Template{}
	if _, err := s.Get(templatesKey, &byName); err != nil {
		return Template{}, false, err
	}
	t, ok := byName[strings.TrimSpace(name)]
	return t, ok, nil
}

// SaveTemplate stores t under its name, replacing an existing one.
func (s *Store) SaveTemplate(t Template) error {
	t.Name = strings.TrimSpace(t.Name)
	_, err := update(s, templatesKey, func(current map[string]Template) map[string]Template {
		if current == nil {
			current = map[string]Template{}
		}
		current[t.Name] = t
		return current
	})
	return err
}

// DeleteTemplate removes a template. It reports whether one existed.
func (s *Store) DeleteTemplate(name string) (bool, error) {
	name = strings.TrimSpace(name)
	existed := false
	_, err := update(s, templatesKey, func(current map[string]Template) map[string]Template {
		if _, ok := current[name]; ok {
			existed = true
			delete(current, name)
		}
		return current
	})
	return existed, err
}
