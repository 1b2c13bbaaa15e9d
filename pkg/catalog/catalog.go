package catalog

import (
	"fmt"
	"strings"
)

// Snapshot is one immutable view of the whole catalog. It is never mutated
// after being published by a Store; loads build a new Snapshot.
type Snapshot struct {
	Components []Component
	// Tokens is nil until a token source has been loaded.
	Tokens     *TokenSet
	Icons      []Icon
	Pictograms []Pictogram

	// Generation increases by one on every Apply.
	Generation uint64

	index *Index
}

// Index provides O(1) lookups into a snapshot.
type Index struct {
	// ComponentByName maps lower-cased component name -> position in Components.
	// Later duplicates overwrite earlier ones.
	ComponentByName map[string]int
}

// Update carries replacement values for a Store. A nil field keeps the
// collection currently held by the store.
type Update struct {
	Components *[]Component
	Tokens     *TokenSet
	Icons      *[]Icon
	Pictograms *[]Pictogram
}

// Stats reports the sizes of the snapshot's collections.
func (s *Snapshot) Stats() LoadStats {
	return LoadStats{
		Components:   len(s.Components),
		Icons:        len(s.Icons),
		Pictograms:   len(s.Pictograms),
		TokensLoaded: s.Tokens != nil,
	}
}

// Lookup finds a component by case-insensitive exact name.
func (s *Snapshot) Lookup(name string) (Component, bool) {
	if s.index == nil {
		return Component{}, false
	}
	i, ok := s.index.ComponentByName[strings.ToLower(name)]
	if !ok {
		return Component{}, false
	}
	return s.Components[i], true
}

// BuildIndex creates the lookup maps for a component list.
func BuildIndex(components []Component) *Index {
	idx := &Index{ComponentByName: make(map[string]int, len(components))}
	for i := range components {
		idx.ComponentByName[strings.ToLower(components[i].Name)] = i
	}
	return idx
}

// ValidateComponents checks a component list for required fields.
// Returns a slice of validation errors (empty slice if valid).
func ValidateComponents(components []Component) []error {
	var errs []error
	for i, comp := range components {
		if comp.Name == "" {
			errs = append(errs, fmt.Errorf("components[%d]: name is required", i))
			continue
		}
		for j, prop := range comp.Props {
			if prop.Name == "" {
				errs = append(errs, fmt.Errorf("component %q props[%d]: name is required", comp.Name, j))
			}
		}
	}
	return errs
}

// ValidateIcons checks that every icon has a name.
func ValidateIcons(icons []Icon) []error {
	var errs []error
	for i, icon := range icons {
		if icon.Name == "" {
			errs = append(errs, fmt.Errorf("icons[%d]: name is required", i))
		}
	}
	return errs
}

// ValidatePictograms checks that every pictogram has a name.
func ValidatePictograms(pictograms []Pictogram) []error {
	var errs []error
	for i, p := range pictograms {
		if p.Name == "" {
			errs = append(errs, fmt.Errorf("pictograms[%d]: name is required", i))
		}
	}
	return errs
}

// DuplicateNames returns component names that appear more than once,
// compared case-insensitively, in first-seen order.
func DuplicateNames(components []Component) []string {
	seen := make(map[string]int, len(components))
	var dups []string
	for _, comp := range components {
		key := strings.ToLower(comp.Name)
		seen[key]++
		if seen[key] == 2 {
			dups = append(dups, comp.Name)
		}
	}
	return dups
}
