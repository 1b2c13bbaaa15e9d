package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/carbonmcp/pkg/catalog"
	"github.com/gnana997/carbonmcp/pkg/mcplog"
	"github.com/gnana997/carbonmcp/pkg/render"
)

// --- helpers ---

type fakeRefresher struct {
	store *catalog.Store
	next  []catalog.Component
	err   error
	calls int
}

func (f *fakeRefresher) Refresh() (catalog.LoadStats, error) {
	f.calls++
	if f.err != nil {
		return f.store.Snapshot().Stats(), f.err
	}
	return f.store.Apply(catalog.Update{Components: &f.next}), nil
}

type recordedCall struct {
	tool, status string
}

type fakeObserver struct {
	calls []recordedCall
}

func (f *fakeObserver) ObserveToolCall(tool, status string, _ time.Duration) {
	f.calls = append(f.calls, recordedCall{tool, status})
}

func intPtr(v int) *int { return &v }

func testStore() *catalog.Store {
	store := catalog.NewStore()
	comps := []catalog.Component{
		{
			Name:        "Button",
			Description: "A clickable action control",
			WhenToUse:   "Use to trigger an action",
			Examples:    []string{"<Button>Save</Button>"},
			Category:    "Actions",
			ImportPath:  "@carbon/react/Button",
			Props: []catalog.Prop{
				{Name: "kind", Type: "string", DefaultValue: "primary"},
				{Name: "size", Type: "string"},
			},
		},
		{
			Name:        "Modal",
			Description: "A dialog overlay",
			Category:    "Overlays",
			ImportPath:  "@carbon/react/Modal",
		},
	}
	icons := []catalog.Icon{
		{Name: "Add", ImportPath: "@carbon/icons-react/Add", Category: "Actions", Size: intPtr(16)},
		{Name: "Add", ImportPath: "@carbon/icons-react/Add", Category: "Actions", Size: intPtr(24)},
	}
	pictos := []catalog.Pictogram{
		{Name: "Cloud", ImportPath: "@carbon/pictograms-react/Cloud", Category: "Cloud & Infrastructure"},
	}
	store.Apply(catalog.Update{Components: &comps, Icons: &icons, Pictograms: &pictos})
	return store
}

func testServer(t *testing.T) (*Server, *catalog.Store) {
	t.Helper()
	store := testStore()
	renderer, err := render.NewRenderer(store, 0)
	require.NoError(t, err)
	s := NewServer(Config{
		Query:     catalog.NewQueryService(store),
		Renderer:  renderer,
		Refresher: &fakeRefresher{store: store, next: []catalog.Component{{Name: "Tile"}}},
	})
	return s, store
}

func callTool(t *testing.T, s *Server, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	result, err := s.HandleToolCall(context.Background(), name, args)
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}

func resultJSON(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	textContent, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected TextContent, got %T", result.Content[0])
	return textContent.Text
}

func decode[T any](t *testing.T, result *mcp.CallToolResult) T {
	t.Helper()
	require.False(t, result.IsError, resultJSON(t, result))
	var v T
	require.NoError(t, json.Unmarshal([]byte(resultJSON(t, result)), &v))
	return v
}

// --- dispatch ---

func TestHandleToolCall_UnknownOperation(t *testing.T) {
	s, _ := testServer(t)
	_, err := s.HandleToolCall(context.Background(), "carbon.nope", nil)
	assert.ErrorIs(t, err, catalog.ErrUnknownOperation)
}

func TestToolNames_AllDispatchable(t *testing.T) {
	s, _ := testServer(t)
	handlers := s.toolHandlers()
	assert.Len(t, handlers, len(ToolNames()))
	for _, name := range ToolNames() {
		assert.Contains(t, handlers, name)
	}
}

// --- carbon.list ---

func TestList(t *testing.T) {
	s, _ := testServer(t)
	resp := decode[listResponse](t, callTool(t, s, ToolList, nil))
	assert.Equal(t, 2, resp.Total)
	assert.Equal(t, "Button", resp.Components[0].Name)
	assert.Equal(t, 2, resp.Components[0].PropsCount)
}

func TestList_Filters(t *testing.T) {
	s, _ := testServer(t)
	resp := decode[listResponse](t, callTool(t, s, ToolList, map[string]any{"category": "overlay"}))
	require.Equal(t, 1, resp.Total)
	assert.Equal(t, "Modal", resp.Components[0].Name)

	resp = decode[listResponse](t, callTool(t, s, ToolList, map[string]any{"search": "zzz"}))
	assert.Equal(t, 0, resp.Total)
	assert.NotNil(t, resp.Components)
}

// --- carbon.search ---

func TestSearch(t *testing.T) {
	s, _ := testServer(t)
	resp := decode[searchResponse[catalog.SearchResult]](t, callTool(t, s, ToolSearch, map[string]any{"query": "clickable"}))
	assert.Equal(t, "clickable", resp.Query)
	require.Equal(t, 1, resp.Total)
	assert.Equal(t, 5, resp.Results[0].Relevance)
}

func TestSearch_MissingQuery(t *testing.T) {
	s, _ := testServer(t)
	result := callTool(t, s, ToolSearch, nil)
	assert.True(t, result.IsError)
	assert.Contains(t, resultJSON(t, result), "invalid params")
}

func TestSearch_EmptyQueryMatchesAll(t *testing.T) {
	s, _ := testServer(t)
	resp := decode[searchResponse[catalog.SearchResult]](t, callTool(t, s, ToolSearch, map[string]any{"query": ""}))
	assert.Equal(t, 2, resp.Total)
}

func TestSearch_NonStringQuery(t *testing.T) {
	s, _ := testServer(t)
	result := callTool(t, s, ToolSearch, map[string]any{"query": 42})
	assert.True(t, result.IsError)
	assert.Contains(t, resultJSON(t, result), "invalid params")
}

// --- carbon.get ---

func TestGet_ResourceLink(t *testing.T) {
	s, _ := testServer(t)
	result := callTool(t, s, ToolGet, map[string]any{"name": "BUTTON"})
	ref := decode[catalog.ComponentRef](t, result)
	assert.Equal(t, "comp://Button", ref.ResourceLink)
	assert.Equal(t, "@carbon/react/Button", ref.ImportPath)

	require.Len(t, result.Content, 2)
	link, ok := result.Content[1].(mcp.ResourceLink)
	require.True(t, ok, "expected ResourceLink, got %T", result.Content[1])
	assert.Equal(t, "comp://Button", link.URI)
	assert.Equal(t, render.MIMEMarkdown, link.MIMEType)
}

func TestGet_NotFound(t *testing.T) {
	s, _ := testServer(t)
	result := callTool(t, s, ToolGet, map[string]any{"name": "Nope"})
	assert.True(t, result.IsError)
	assert.Contains(t, resultJSON(t, result), "invalid params")
	assert.Contains(t, resultJSON(t, result), "not found")
}

// --- carbon.props ---

func TestProps(t *testing.T) {
	s, _ := testServer(t)
	resp := decode[catalog.PropsResult](t, callTool(t, s, ToolProps, map[string]any{"name": "button"}))
	assert.Equal(t, "Button", resp.Name)
	assert.Equal(t, 2, resp.Total)
	assert.Equal(t, "kind", resp.Props[0].Name)
	assert.Equal(t, "primary", resp.Props[0].DefaultValue)
}

func TestProps_NotFound(t *testing.T) {
	s, _ := testServer(t)
	result := callTool(t, s, ToolProps, map[string]any{"name": "Nope"})
	assert.True(t, result.IsError)
}

// --- carbon.suggest ---

func TestSuggest(t *testing.T) {
	s, _ := testServer(t)
	resp := decode[suggestResponse](t, callTool(t, s, ToolSuggest, map[string]any{"intent": "I need a clickable action"}))
	assert.Equal(t, "I need a clickable action", resp.Intent)
	require.NotEmpty(t, resp.Suggestions)
	assert.Equal(t, "Button", resp.Suggestions[0].Name)
	assert.GreaterOrEqual(t, resp.Suggestions[0].Score, 2)
}

func TestSuggest_NoMatchesIsEmptyArray(t *testing.T) {
	s, _ := testServer(t)
	result := callTool(t, s, ToolSuggest, map[string]any{"intent": "spaceship"})
	assert.Contains(t, resultJSON(t, result), `"suggestions": []`)
}

func TestSuggest_EmptyIntent(t *testing.T) {
	s, _ := testServer(t)
	resp := decode[suggestResponse](t, callTool(t, s, ToolSuggest, map[string]any{"intent": ""}))
	assert.Empty(t, resp.Suggestions)

	result := callTool(t, s, ToolSuggest, nil)
	assert.True(t, result.IsError)
}

// --- carbon.tokens ---

func TestTokens_NotLoaded(t *testing.T) {
	s, _ := testServer(t)
	result := callTool(t, s, ToolTokens, nil)
	assert.True(t, result.IsError)
	assert.Contains(t, resultJSON(t, result), "internal error")
	assert.Contains(t, resultJSON(t, result), ToolRefresh)
}

func TestTokens_Loaded(t *testing.T) {
	s, store := testServer(t)
	store.Apply(catalog.Update{Tokens: &catalog.TokenSet{
		"motion":  map[string]any{"fast01": "70ms"},
		"spacing": map[string]any{"s01": "2px"},
	}})
	resp := decode[map[string]any](t, callTool(t, s, ToolTokens, nil))
	assert.Equal(t, map[string]any{
		"motion":  map[string]any{"fast01": "70ms"},
		"spacing": map[string]any{"s01": "2px"},
	}, resp)
}

// --- carbon.icons.search / carbon.pictograms.search ---

func TestIconsSearch_Size(t *testing.T) {
	s, _ := testServer(t)

	tests := []struct {
		name string
		size any
		want int
	}{
		{"number", float64(24), 1},
		{"numeric string", "16", 1},
		{"no size", nil, 2},
		{"zero means no filter", float64(0), 2},
		{"no match", float64(32), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := map[string]any{"query": "add"}
			if tt.size != nil {
				args["size"] = tt.size
			}
			resp := decode[searchResponse[catalog.Icon]](t, callTool(t, s, ToolIconsSearch, args))
			assert.Equal(t, tt.want, resp.Total)
		})
	}
}

func TestIconsSearch_InvalidSize(t *testing.T) {
	s, _ := testServer(t)
	result := callTool(t, s, ToolIconsSearch, map[string]any{"query": "add", "size": 16.5})
	assert.True(t, result.IsError)
	assert.Contains(t, resultJSON(t, result), "invalid params")
}

func TestIconsSearch_EmptyQuery(t *testing.T) {
	s, _ := testServer(t)
	resp := decode[searchResponse[catalog.Icon]](t, callTool(t, s, ToolIconsSearch, map[string]any{"query": ""}))
	assert.Equal(t, 2, resp.Total)
}

func TestPictogramsSearch(t *testing.T) {
	s, _ := testServer(t)
	resp := decode[searchResponse[catalog.Pictogram]](t, callTool(t, s, ToolPictogramsSearch, map[string]any{"query": "infra"}))
	require.Equal(t, 1, resp.Total)
	assert.Equal(t, "Cloud", resp.Results[0].Name)

	resp = decode[searchResponse[catalog.Pictogram]](t, callTool(t, s, ToolPictogramsSearch, map[string]any{"query": ""}))
	assert.Equal(t, 1, resp.Total)
}

// --- carbon.refresh ---

func TestRefresh(t *testing.T) {
	s, _ := testServer(t)
	resp := decode[refreshResponse](t, callTool(t, s, ToolRefresh, nil))
	assert.Equal(t, refreshMessage, resp.Message)
	assert.Equal(t, catalog.LoadStats{Components: 1, Icons: 2, Pictograms: 1}, resp.Stats)

	list := decode[listResponse](t, callTool(t, s, ToolList, nil))
	require.Equal(t, 1, list.Total)
	assert.Equal(t, "Tile", list.Components[0].Name)
}

func TestRefresh_Failure(t *testing.T) {
	store := testStore()
	renderer, err := render.NewRenderer(store, 0)
	require.NoError(t, err)
	s := NewServer(Config{
		Query:     catalog.NewQueryService(store),
		Renderer:  renderer,
		Refresher: &fakeRefresher{store: store, err: errors.New("components: failed to parse JSON")},
	})

	result := callTool(t, s, ToolRefresh, nil)
	assert.True(t, result.IsError)
	assert.Contains(t, resultJSON(t, result), "internal error")

	list := decode[listResponse](t, callTool(t, s, ToolList, nil))
	assert.Equal(t, 2, list.Total)
}

func TestRefresh_NotConfigured(t *testing.T) {
	store := testStore()
	renderer, err := render.NewRenderer(store, 0)
	require.NoError(t, err)
	s := NewServer(Config{Query: catalog.NewQueryService(store), Renderer: renderer})
	assert.True(t, callTool(t, s, ToolRefresh, nil).IsError)
}

// --- resources ---

func TestReadResource_Component(t *testing.T) {
	s, _ := testServer(t)
	contents, err := s.handleReadResource(context.Background(), mcp.ReadResourceRequest{
		Params: mcp.ReadResourceParams{URI: "comp://button"},
	})
	require.NoError(t, err)
	require.Len(t, contents, 1)
	text, ok := contents[0].(mcp.TextResourceContents)
	require.True(t, ok)
	assert.Equal(t, "comp://Button", text.URI)
	assert.Equal(t, render.MIMEMarkdown, text.MIMEType)
	assert.Contains(t, text.Text, "import { Button } from '@carbon/react/Button';")
}

func TestReadResource_Errors(t *testing.T) {
	s, _ := testServer(t)

	_, err := s.ReadResource("comp://Nope")
	assert.ErrorIs(t, err, catalog.ErrNotFound)

	_, err = s.ReadResource(render.TokensURI)
	assert.ErrorIs(t, err, catalog.ErrNotLoaded)

	_, err = s.ReadResource("foo://bar")
	assert.ErrorIs(t, err, catalog.ErrUnknownResource)
}

func TestHandleReadResource_ErrorPrefixes(t *testing.T) {
	s, _ := testServer(t)
	read := func(uri string) error {
		_, err := s.handleReadResource(context.Background(), mcp.ReadResourceRequest{
			Params: mcp.ReadResourceParams{URI: uri},
		})
		return err
	}

	err := read("comp://Unknown")
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "invalid params: "), err.Error())
	assert.ErrorIs(t, err, catalog.ErrNotFound)

	err = read("foo://bar")
	assert.True(t, strings.HasPrefix(err.Error(), "invalid params: "), err.Error())

	err = read(render.TokensURI)
	assert.True(t, strings.HasPrefix(err.Error(), "internal error: "), err.Error())
	assert.ErrorIs(t, err, catalog.ErrNotLoaded)
}

func TestReadResource_Lists(t *testing.T) {
	s, _ := testServer(t)

	doc, err := s.ReadResource(render.IconsURI)
	require.NoError(t, err)
	var icons []catalog.Icon
	require.NoError(t, json.Unmarshal([]byte(doc.Text), &icons))
	assert.Len(t, icons, 2)

	doc, err = s.ReadResource(render.PictogramsURI)
	require.NoError(t, err)
	assert.Contains(t, doc.Text, "Cloud")
}

// --- middleware ---

func TestMiddleware_RecordsCalls(t *testing.T) {
	store := testStore()
	renderer, err := render.NewRenderer(store, 0)
	require.NoError(t, err)

	logPath := filepath.Join(t.TempDir(), "tools.jsonl")
	toolLog, err := mcplog.NewLogger(logPath)
	require.NoError(t, err)

	obs := &fakeObserver{}
	s := NewServer(Config{
		Query:    catalog.NewQueryService(store),
		Renderer: renderer,
		ToolLog:  toolLog,
		Metrics:  obs,
	})

	callTool(t, s, ToolList, nil)
	callTool(t, s, ToolGet, map[string]any{"name": "Nope"})
	require.NoError(t, toolLog.Close())

	assert.Equal(t, []recordedCall{
		{ToolList, mcplog.StatusOK},
		{ToolGet, mcplog.StatusToolError},
	}, obs.calls)

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"tool":"carbon.list"`)
	assert.Contains(t, string(data), `"status":"tool_error"`)
}
