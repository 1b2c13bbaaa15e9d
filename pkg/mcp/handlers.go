package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/gnana997/carbonmcp/pkg/catalog"
	"github.com/gnana997/carbonmcp/pkg/render"
)

// refreshMessage is reported by carbon.refresh on success.
const refreshMessage = "Catalog reloaded"

type listResponse struct {
	Components []catalog.ComponentSummary `json:"components"`
	Total      int                        `json:"total"`
}

type searchResponse[T any] struct {
	Query   string `json:"query"`
	Results []T    `json:"results"`
	Total   int    `json:"total"`
}

type suggestResponse struct {
	Intent      string               `json:"intent"`
	Suggestions []catalog.Suggestion `json:"suggestions"`
}

type refreshResponse struct {
	Message string            `json:"message"`
	Stats   catalog.LoadStats `json:"stats"`
}

// HandleToolCall dispatches a tool call by name outside the MCP transport.
// Unknown names fail with catalog.ErrUnknownOperation.
func (s *Server) HandleToolCall(ctx context.Context, toolName string, args map[string]any) (*mcp.CallToolResult, error) {
	handler, ok := s.toolHandlers()[toolName]
	if !ok {
		return nil, fmt.Errorf("%q: %w", toolName, catalog.ErrUnknownOperation)
	}
	req := mcp.CallToolRequest{}
	req.Params.Name = toolName
	if args != nil {
		req.Params.Arguments = args
	}
	return s.observeMiddleware()(handler)(ctx, req)
}

func (s *Server) toolHandlers() map[string]server.ToolHandlerFunc {
	return map[string]server.ToolHandlerFunc{
		ToolList:             s.handleList,
		ToolSearch:           s.handleSearch,
		ToolGet:              s.handleGet,
		ToolProps:            s.handleProps,
		ToolSuggest:          s.handleSuggest,
		ToolTokens:           s.handleTokens,
		ToolIconsSearch:      s.handleIconsSearch,
		ToolPictogramsSearch: s.handlePictogramsSearch,
		ToolRefresh:          s.handleRefresh,
	}
}

// --- handlers ---

func (s *Server) handleList(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	components := s.query.List(req.GetString("category", ""), req.GetString("search", ""))
	return jsonResult(listResponse{Components: components, Total: len(components)})
}

func (s *Server) handleSearch(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := requireString(req, "query")
	if err != nil {
		return toolError(err), nil
	}
	results := s.query.Search(query, req.GetString("category", ""))
	return jsonResult(searchResponse[catalog.SearchResult]{Query: query, Results: results, Total: len(results)})
}

func (s *Server) handleGet(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := requireString(req, "name")
	if err != nil {
		return toolError(err), nil
	}
	ref, err := s.query.Get(name)
	if err != nil {
		return toolError(err), nil
	}
	result, err := jsonResult(ref)
	if err != nil {
		return nil, err
	}
	result.Content = append(result.Content, mcp.NewResourceLink(
		ref.ResourceLink,
		ref.Name,
		ref.Description,
		render.MIMEMarkdown,
	))
	return result, nil
}

func (s *Server) handleProps(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := requireString(req, "name")
	if err != nil {
		return toolError(err), nil
	}
	props, err := s.query.Props(name)
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(props)
}

func (s *Server) handleSuggest(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	intent, err := requireString(req, "intent")
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(suggestResponse{Intent: intent, Suggestions: s.query.Suggest(intent)})
}

func (s *Server) handleTokens(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tokens, err := s.query.Tokens()
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(tokens)
}

func (s *Server) handleIconsSearch(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := requireString(req, "query")
	if err != nil {
		return toolError(err), nil
	}
	size, err := optionalInt(req, "size")
	if err != nil {
		return toolError(err), nil
	}
	icons := s.query.SearchIcons(query, req.GetString("category", ""), size)
	return jsonResult(searchResponse[catalog.Icon]{Query: query, Results: icons, Total: len(icons)})
}

func (s *Server) handlePictogramsSearch(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := requireString(req, "query")
	if err != nil {
		return toolError(err), nil
	}
	pictograms := s.query.SearchPictograms(query, req.GetString("category", ""))
	return jsonResult(searchResponse[catalog.Pictogram]{Query: query, Results: pictograms, Total: len(pictograms)})
}

func (s *Server) handleRefresh(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.refresher == nil {
		return toolError(errors.New("refresh is not configured")), nil
	}
	stats, err := s.refresher.Refresh()
	if err != nil {
		return toolError(err), nil
	}
	if s.renderer != nil {
		s.renderer.Purge()
	}
	return jsonResult(refreshResponse{Message: refreshMessage, Stats: stats})
}

// --- argument helpers ---

// requireString returns a string argument that must be present. The empty
// string is a valid value.
func requireString(req mcp.CallToolRequest, key string) (string, error) {
	raw, ok := req.GetArguments()[key]
	if !ok || raw == nil {
		return "", fmt.Errorf("%s: %w", key, catalog.ErrMissingArgument)
	}
	v, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%s must be a string: %w", key, catalog.ErrInvalidArgument)
	}
	return v, nil
}

// optionalInt returns nil when key is absent or zero. Integral numbers and
// numeric strings are accepted.
func optionalInt(req mcp.CallToolRequest, key string) (*int, error) {
	raw, ok := req.GetArguments()[key]
	if !ok || raw == nil {
		return nil, nil
	}
	invalid := fmt.Errorf("%s must be an integer: %w", key, catalog.ErrInvalidArgument)

	var f float64
	switch v := raw.(type) {
	case float64:
		f = v
	case int:
		f = float64(v)
	case json.Number:
		n, err := v.Float64()
		if err != nil {
			return nil, invalid
		}
		f = n
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, invalid
		}
		f = n
	default:
		return nil, invalid
	}
	if f != math.Trunc(f) {
		return nil, invalid
	}
	if f == 0 {
		return nil, nil
	}
	n := int(f)
	return &n, nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
