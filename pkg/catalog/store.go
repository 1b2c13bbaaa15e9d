package catalog

import (
	"sync"
	"sync/atomic"
)

// Store holds the current catalog snapshot. Readers call Snapshot once per
// operation and never observe a partially applied update.
type Store struct {
	mu      sync.Mutex
	current atomic.Pointer[Snapshot]
}

// NewStore creates a store with empty collections and no tokens.
func NewStore() *Store {
	s := &Store{}
	s.current.Store(&Snapshot{
		Components: []Component{},
		Icons:      []Icon{},
		Pictograms: []Pictogram{},
		index:      BuildIndex(nil),
	})
	return s
}

// Snapshot returns the current immutable view of the catalog.
func (s *Store) Snapshot() *Snapshot {
	return s.current.Load()
}

// Apply publishes a new snapshot built from the current one and u.
// Collections left nil in u keep their current value.
func (s *Store) Apply(u Update) LoadStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.current.Load()
	next := &Snapshot{
		Components: prev.Components,
		Tokens:     prev.Tokens,
		Icons:      prev.Icons,
		Pictograms: prev.Pictograms,
		Generation: prev.Generation + 1,
		index:      prev.index,
	}

	if u.Components != nil {
		next.Components = nonNil(*u.Components)
		next.index = BuildIndex(next.Components)
	}
	if u.Tokens != nil {
		next.Tokens = u.Tokens
	}
	if u.Icons != nil {
		next.Icons = nonNil(*u.Icons)
	}
	if u.Pictograms != nil {
		next.Pictograms = nonNil(*u.Pictograms)
	}

	s.current.Store(next)
	return next.Stats()
}

func nonNil[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}
