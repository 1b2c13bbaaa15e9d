package catalog

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"
)

// Relevance weights for component search. Each field contributes at most once.
const (
	RelevanceName        = 10
	RelevanceDescription = 5
	RelevanceWhenToUse   = 3
	RelevanceExample     = 2
)

// MaxSuggestions caps the number of components returned by Suggest.
const MaxSuggestions = 5

// minIntentTokenLen is the shortest intent word that takes part in scoring.
const minIntentTokenLen = 3

// ComponentURIPrefix is the resource scheme for rendered component documents.
const ComponentURIPrefix = "comp://"

// QueryService provides read-only query methods over a Store. Every method
// reads exactly one snapshot.
type QueryService struct {
	store *Store
}

// NewQueryService creates a QueryService reading from store.
func NewQueryService(store *Store) *QueryService {
	return &QueryService{store: store}
}

// Store returns the underlying store.
func (q *QueryService) Store() *Store {
	return q.store
}

// List returns components filtered by category and/or keyword.
// Both filters are optional (pass "" to skip). When both are provided, they combine with AND logic.
// Category is a case-insensitive substring match; the keyword matches name, description and whenToUse.
func (q *QueryService) List(category, search string) []ComponentSummary {
	snap := q.store.Snapshot()

	category = strings.ToLower(category)
	search = strings.ToLower(search)
	result := make([]ComponentSummary, 0)

	for i := range snap.Components {
		comp := &snap.Components[i]
		if !matchesCategory(comp.Category, category) {
			continue
		}
		if search != "" && !containsFold(search, comp.Name, comp.Description, comp.WhenToUse) {
			continue
		}
		result = append(result, ComponentSummary{
			Name:        comp.Name,
			Description: comp.Description,
			Category:    comp.Category,
			ImportPath:  comp.ImportPath,
			PropsCount:  len(comp.Props),
		})
	}

	return result
}

// Search performs a case-insensitive substring search across component names,
// descriptions, whenToUse and examples. Results keep snapshot order and carry
// a relevance score. An empty query matches every component.
func (q *QueryService) Search(query, category string) []SearchResult {
	snap := q.store.Snapshot()

	query = strings.ToLower(query)
	category = strings.ToLower(category)
	results := make([]SearchResult, 0)

	for i := range snap.Components {
		comp := &snap.Components[i]
		if !matchesCategory(comp.Category, category) {
			continue
		}
		score := Relevance(comp, query)
		if score == 0 {
			continue
		}
		results = append(results, SearchResult{
			Name:        comp.Name,
			Description: comp.Description,
			Category:    comp.Category,
			ImportPath:  comp.ImportPath,
			Relevance:   score,
		})
	}

	return results
}

// Relevance scores a component against a lower-cased query. A zero score
// means the component does not match. Absent fields never score.
func Relevance(comp *Component, query string) int {
	score := 0
	if strings.Contains(strings.ToLower(comp.Name), query) {
		score += RelevanceName
	}
	if comp.Description != "" && strings.Contains(strings.ToLower(comp.Description), query) {
		score += RelevanceDescription
	}
	if comp.WhenToUse != "" && strings.Contains(strings.ToLower(comp.WhenToUse), query) {
		score += RelevanceWhenToUse
	}
	for _, ex := range comp.Examples {
		if strings.Contains(strings.ToLower(ex), query) {
			score += RelevanceExample
			break
		}
	}
	return score
}

// Get looks up a component by case-insensitive exact name.
func (q *QueryService) Get(name string) (ComponentRef, error) {
	comp, ok := q.store.Snapshot().Lookup(name)
	if !ok {
		return ComponentRef{}, fmt.Errorf("component %q: %w", name, ErrNotFound)
	}
	return ComponentRef{
		ResourceLink: ComponentURIPrefix + comp.Name,
		Name:         comp.Name,
		Description:  comp.Description,
		Category:     comp.Category,
		ImportPath:   comp.ImportPath,
	}, nil
}

// Component returns the full component record by case-insensitive exact name.
func (q *QueryService) Component(name string) (Component, error) {
	comp, ok := q.store.Snapshot().Lookup(name)
	if !ok {
		return Component{}, fmt.Errorf("component %q: %w", name, ErrNotFound)
	}
	return comp, nil
}

// Props returns the ordered prop list of a component.
func (q *QueryService) Props(name string) (PropsResult, error) {
	comp, ok := q.store.Snapshot().Lookup(name)
	if !ok {
		return PropsResult{}, fmt.Errorf("component %q: %w", name, ErrNotFound)
	}
	props := comp.Props
	if props == nil {
		props = []Prop{}
	}
	return PropsResult{Name: comp.Name, Props: props, Total: len(props)}, nil
}

// Suggest ranks components against a free-text intent. Each intent word of
// three or more characters found in a component's text adds one point;
// repeated words count again. Zero-score components are dropped and at most
// MaxSuggestions results are returned, highest score first.
func (q *QueryService) Suggest(intent string) []Suggestion {
	snap := q.store.Snapshot()
	tokens := IntentTokens(intent)
	suggestions := make([]Suggestion, 0)
	if len(tokens) == 0 {
		return suggestions
	}

	for i := range snap.Components {
		comp := &snap.Components[i]
		blob := suggestBlob(comp)
		score := 0
		for _, tok := range tokens {
			if strings.Contains(blob, tok) {
				score++
			}
		}
		if score == 0 {
			continue
		}
		suggestions = append(suggestions, Suggestion{
			Name:        comp.Name,
			Description: comp.Description,
			Category:    comp.Category,
			Score:       score,
			ImportPath:  comp.ImportPath,
		})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Score > suggestions[j].Score
	})
	if len(suggestions) > MaxSuggestions {
		suggestions = suggestions[:MaxSuggestions]
	}
	return suggestions
}

// IntentTokens splits an intent on whitespace and returns the lower-cased
// words long enough to take part in scoring, duplicates included.
func IntentTokens(intent string) []string {
	fields := strings.Fields(intent)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if utf8.RuneCountInString(f) < minIntentTokenLen {
			continue
		}
		tokens = append(tokens, strings.ToLower(f))
	}
	return tokens
}

func suggestBlob(comp *Component) string {
	parts := make([]string, 0, 3+len(comp.Examples))
	for _, p := range []string{comp.Name, comp.Description, comp.WhenToUse} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	for _, ex := range comp.Examples {
		if ex != "" {
			parts = append(parts, ex)
		}
	}
	return strings.ToLower(strings.Join(parts, " "))
}

// Tokens returns the loaded design tokens.
func (q *QueryService) Tokens() (*TokenSet, error) {
	tokens := q.store.Snapshot().Tokens
	if tokens == nil {
		return nil, fmt.Errorf("tokens: %w", ErrNotLoaded)
	}
	return tokens, nil
}

// SearchIcons returns icons whose name or category contains query, optionally
// filtered by category substring and exact size.
func (q *QueryService) SearchIcons(query, category string, size *int) []Icon {
	snap := q.store.Snapshot()

	query = strings.ToLower(query)
	category = strings.ToLower(category)
	results := make([]Icon, 0)

	for _, icon := range snap.Icons {
		if !containsFold(query, icon.Name, icon.Category) {
			continue
		}
		if !matchesCategory(icon.Category, category) {
			continue
		}
		if size != nil && (icon.Size == nil || *icon.Size != *size) {
			continue
		}
		results = append(results, icon)
	}

	return results
}

// SearchPictograms returns pictograms whose name or category contains query,
// optionally filtered by category substring.
func (q *QueryService) SearchPictograms(query, category string) []Pictogram {
	snap := q.store.Snapshot()

	query = strings.ToLower(query)
	category = strings.ToLower(category)
	results := make([]Pictogram, 0)

	for _, p := range snap.Pictograms {
		if !containsFold(query, p.Name, p.Category) {
			continue
		}
		if !matchesCategory(p.Category, category) {
			continue
		}
		results = append(results, p)
	}

	return results
}

// matchesCategory reports whether value contains the lower-cased filter.
// An empty filter matches everything.
func matchesCategory(value, filter string) bool {
	if filter == "" {
		return true
	}
	return strings.Contains(strings.ToLower(value), filter)
}

// containsFold reports whether any field contains the lower-cased needle.
func containsFold(needle string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}
