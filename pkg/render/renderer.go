package render

import (
	"encoding/json"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/gnana997/carbonmcp/pkg/catalog"
)

// DefaultCacheSize is the number of rendered documents kept in memory.
const DefaultCacheSize = 256

// Document is a rendered resource.
type Document struct {
	URI      string
	MIMEType string
	Text     string
}

// Renderer produces resource documents from the store's current snapshot.
// Rendered documents are cached per snapshot generation, so a refresh never
// serves stale text.
type Renderer struct {
	store *catalog.Store
	cache *lru.Cache[string, Document]
}

// NewRenderer creates a Renderer. A cacheSize <= 0 uses DefaultCacheSize.
func NewRenderer(store *catalog.Store, cacheSize int) (*Renderer, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, err := lru.New[string, Document](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create document cache: %w", err)
	}
	return &Renderer{store: store, cache: cache}, nil
}

// Read renders the document addressed by uri.
func (r *Renderer) Read(uri string) (Document, error) {
	ref, err := ParseURI(uri)
	if err != nil {
		return Document{}, err
	}
	snap := r.store.Snapshot()

	switch ref.Kind {
	case KindComponent:
		comp, ok := snap.Lookup(ref.Name)
		if !ok {
			return Document{}, fmt.Errorf("component %q: %w", ref.Name, catalog.ErrNotFound)
		}
		canonical := ComponentURI(comp.Name)
		return r.cached(snap.Generation, canonical, func() (Document, error) {
			return Document{URI: canonical, MIMEType: MIMEMarkdown, Text: ComponentMarkdown(comp)}, nil
		})
	case KindTokens:
		if snap.Tokens == nil {
			return Document{}, fmt.Errorf("tokens: %w", catalog.ErrNotLoaded)
		}
		return r.cached(snap.Generation, TokensURI, func() (Document, error) {
			return jsonDocument(TokensURI, snap.Tokens)
		})
	case KindIcons:
		return r.cached(snap.Generation, IconsURI, func() (Document, error) {
			return jsonDocument(IconsURI, snap.Icons)
		})
	case KindPictograms:
		return r.cached(snap.Generation, PictogramsURI, func() (Document, error) {
			return jsonDocument(PictogramsURI, snap.Pictograms)
		})
	}
	return Document{}, fmt.Errorf("%q: %w", uri, catalog.ErrUnknownResource)
}

// Purge drops every cached document.
func (r *Renderer) Purge() {
	r.cache.Purge()
}

// Len reports the number of cached documents.
func (r *Renderer) Len() int {
	return r.cache.Len()
}

func (r *Renderer) cached(gen uint64, uri string, build func() (Document, error)) (Document, error) {
	key := fmt.Sprintf("%d|%s", gen, uri)
	if doc, ok := r.cache.Get(key); ok {
		return doc, nil
	}
	doc, err := build()
	if err != nil {
		return Document{}, err
	}
	r.cache.Add(key, doc)
	return doc, nil
}

func jsonDocument(uri string, v any) (Document, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return Document{}, fmt.Errorf("failed to encode %s: %w", uri, err)
	}
	return Document{URI: uri, MIMEType: MIMEJSON, Text: string(data)}, nil
}
