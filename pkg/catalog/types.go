package catalog

// Component represents a UI component in the catalog.
type Component struct {
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	WhenToUse   string   `json:"whenToUse,omitempty" yaml:"whenToUse,omitempty"`
	Examples    []string `json:"examples,omitempty" yaml:"examples,omitempty"`
	Category    string   `json:"category,omitempty" yaml:"category,omitempty"`
	ImportPath  string   `json:"importPath" yaml:"importPath"`
	Props       []Prop   `json:"props" yaml:"props"`
}

// Prop represents a component property.
type Prop struct {
	Name     string `json:"name" yaml:"name"`
	Type     string `json:"type" yaml:"type"`
	Required bool   `json:"required" yaml:"required"`

	// DefaultValue is any JSON-like value. nil means no default.
	DefaultValue any    `json:"defaultValue,omitempty" yaml:"defaultValue,omitempty"`
	Description  string `json:"description,omitempty" yaml:"description,omitempty"`
}

// TokenSet is the design token document as loaded. Its structure is opaque
// and returned unchanged.
type TokenSet map[string]any

// Icon is a single icon asset.
type Icon struct {
	Name       string `json:"name" yaml:"name"`
	ImportPath string `json:"importPath" yaml:"importPath"`
	Category   string `json:"category,omitempty" yaml:"category,omitempty"`
	Size       *int   `json:"size,omitempty" yaml:"size,omitempty"`
}

// Pictogram is a single pictogram asset.
type Pictogram struct {
	Name       string `json:"name" yaml:"name"`
	ImportPath string `json:"importPath" yaml:"importPath"`
	Category   string `json:"category,omitempty" yaml:"category,omitempty"`
}

// ComponentSummary is the list view of a component.
type ComponentSummary struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	ImportPath  string `json:"importPath"`
	PropsCount  int    `json:"propsCount"`
}

// SearchResult is a component summary with its relevance score.
type SearchResult struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	ImportPath  string `json:"importPath"`
	Relevance   int    `json:"relevance"`
}

// ComponentRef is the result of a single-component lookup. ResourceLink
// addresses the rendered component document.
type ComponentRef struct {
	ResourceLink string `json:"resourceLink"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	Category     string `json:"category,omitempty"`
	ImportPath   string `json:"importPath"`
}

// PropsResult lists every prop of one component in declared order.
type PropsResult struct {
	Name  string `json:"name"`
	Props []Prop `json:"props"`
	Total int    `json:"total"`
}

// Suggestion is a component ranked against a free-text intent.
type Suggestion struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	Score       int    `json:"score"`
	ImportPath  string `json:"importPath"`
}

// LoadStats summarises the collections currently held by a snapshot.
type LoadStats struct {
	Components   int  `json:"components"`
	Icons        int  `json:"icons"`
	Pictograms   int  `json:"pictograms"`
	TokensLoaded bool `json:"tokensLoaded"`
}
