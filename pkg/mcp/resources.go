package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/gnana997/carbonmcp/pkg/render"
)

func (s *Server) registerResources() {
	s.mcpServer.AddResourceTemplate(
		mcp.NewResourceTemplate(render.ComponentURITemplate, "Component documentation",
			mcp.WithTemplateDescription("Markdown document for one component: description, usage, examples, import and props"),
			mcp.WithTemplateMIMEType(render.MIMEMarkdown),
		),
		s.handleReadResource,
	)
	s.mcpServer.AddResource(
		mcp.NewResource(render.TokensURI, "Design tokens",
			mcp.WithResourceDescription("Colors, themes, type, layout, motion and grid tokens"),
			mcp.WithMIMEType(render.MIMEJSON),
		),
		s.handleReadResource,
	)
	s.mcpServer.AddResource(
		mcp.NewResource(render.IconsURI, "Icons",
			mcp.WithResourceDescription("Every icon with import path, category and size"),
			mcp.WithMIMEType(render.MIMEJSON),
		),
		s.handleReadResource,
	)
	s.mcpServer.AddResource(
		mcp.NewResource(render.PictogramsURI, "Pictograms",
			mcp.WithResourceDescription("Every pictogram with import path and category"),
			mcp.WithMIMEType(render.MIMEJSON),
		),
		s.handleReadResource,
	)
}

// handleReadResource serves every registered resource. Failures are returned
// as protocol errors with the same prefixes as tool errors.
func (s *Server) handleReadResource(_ context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	doc, err := s.ReadResource(req.Params.URI)
	if err != nil {
		return nil, resourceError(err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      doc.URI,
			MIMEType: doc.MIMEType,
			Text:     doc.Text,
		},
	}, nil
}

// ReadResource renders the document addressed by uri.
func (s *Server) ReadResource(uri string) (render.Document, error) {
	return s.renderer.Read(uri)
}
