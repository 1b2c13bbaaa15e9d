package render

import (
	"fmt"
	"strings"

	"github.com/gnana997/carbonmcp/pkg/catalog"
)

// Fixed resource URIs.
const (
	TokensURI     = "ds://tokens"
	IconsURI      = "icons://list"
	PictogramsURI = "pictograms://list"

	// ComponentURITemplate is the RFC 6570 template for component documents.
	ComponentURITemplate = catalog.ComponentURIPrefix + "{name}"
)

// MIME types of rendered documents.
const (
	MIMEMarkdown = "text/markdown"
	MIMEJSON     = "application/json"
)

// Kind identifies which document a URI addresses.
type Kind int

const (
	KindComponent Kind = iota + 1
	KindTokens
	KindIcons
	KindPictograms
)

func (k Kind) String() string {
	switch k {
	case KindComponent:
		return "component"
	case KindTokens:
		return "tokens"
	case KindIcons:
		return "icons"
	case KindPictograms:
		return "pictograms"
	default:
		return "unknown"
	}
}

// Ref is a parsed resource URI.
type Ref struct {
	Kind Kind
	// Name is set for KindComponent only.
	Name string
}

// ParseURI resolves a resource URI. Unrecognized URIs, and component URIs
// without a name, fail with catalog.ErrUnknownResource.
func ParseURI(uri string) (Ref, error) {
	switch uri {
	case TokensURI:
		return Ref{Kind: KindTokens}, nil
	case IconsURI:
		return Ref{Kind: KindIcons}, nil
	case PictogramsURI:
		return Ref{Kind: KindPictograms}, nil
	}
	if name, ok := strings.CutPrefix(uri, catalog.ComponentURIPrefix); ok && name != "" {
		return Ref{Kind: KindComponent, Name: name}, nil
	}
	return Ref{}, fmt.Errorf("%q: %w", uri, catalog.ErrUnknownResource)
}

// ComponentURI returns the resource URI for a component name.
func ComponentURI(name string) string {
	return catalog.ComponentURIPrefix + name
}
