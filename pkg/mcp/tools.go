package mcp

import "github.com/mark3labs/mcp-go/mcp"

// Tool names.
const (
	ToolList             = "carbon.list"
	ToolSearch           = "carbon.search"
	ToolGet              = "carbon.get"
	ToolProps            = "carbon.props"
	ToolSuggest          = "carbon.suggest"
	ToolTokens           = "carbon.tokens"
	ToolIconsSearch      = "carbon.icons.search"
	ToolPictogramsSearch = "carbon.pictograms.search"
	ToolRefresh          = "carbon.refresh"
)

// ToolNames lists every registered tool in registration order.
func ToolNames() []string {
	return []string{
		ToolList, ToolSearch, ToolGet, ToolProps, ToolSuggest,
		ToolTokens, ToolIconsSearch, ToolPictogramsSearch, ToolRefresh,
	}
}

func listTool() mcp.Tool {
	return mcp.NewTool(ToolList,
		mcp.WithDescription("List catalog components, optionally filtered by category and a keyword matched against name, description and usage notes."),
		mcp.WithString("category", mcp.Description("Category substring filter (case-insensitive)")),
		mcp.WithString("search", mcp.Description("Keyword matched against name, description and whenToUse")),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

func searchTool() mcp.Tool {
	return mcp.NewTool(ToolSearch,
		mcp.WithDescription("Search components by name, description, usage notes and examples. Each result carries a relevance score."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search text")),
		mcp.WithString("category", mcp.Description("Category substring filter (case-insensitive)")),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

func getTool() mcp.Tool {
	return mcp.NewTool(ToolGet,
		mcp.WithDescription("Get a component by exact name (case-insensitive) with a link to its full markdown document."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Component name, e.g. Button")),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

func propsTool() mcp.Tool {
	return mcp.NewTool(ToolProps,
		mcp.WithDescription("Get every prop of a component in declared order."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Component name, e.g. Button")),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

func suggestTool() mcp.Tool {
	return mcp.NewTool(ToolSuggest,
		mcp.WithDescription("Suggest up to five components for a free-text description of what you want to build."),
		mcp.WithString("intent", mcp.Required(), mcp.Description("What the UI should do, e.g. \"confirm a destructive action\"")),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

func tokensTool() mcp.Tool {
	return mcp.NewTool(ToolTokens,
		mcp.WithDescription("Get the design tokens: colors, themes, type, layout, motion and grid."),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

func iconsSearchTool() mcp.Tool {
	return mcp.NewTool(ToolIconsSearch,
		mcp.WithDescription("Search icons by name or category."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Text matched against icon name and category")),
		mcp.WithString("category", mcp.Description("Category substring filter (case-insensitive)")),
		mcp.WithNumber("size", mcp.Description("Exact icon size, e.g. 16, 20, 24 or 32")),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

func pictogramsSearchTool() mcp.Tool {
	return mcp.NewTool(ToolPictogramsSearch,
		mcp.WithDescription("Search pictograms by name or category."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Text matched against pictogram name and category")),
		mcp.WithString("category", mcp.Description("Category substring filter (case-insensitive)")),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

func refreshTool() mcp.Tool {
	return mcp.NewTool(ToolRefresh,
		mcp.WithDescription("Reload every catalog source from disk and report the new collection sizes."),
	)
}
