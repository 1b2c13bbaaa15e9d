package mcp

import (
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/gnana997/carbonmcp/pkg/catalog"
)

// Error result prefixes, mirroring JSON-RPC error classes.
const (
	prefixInvalidParams = "invalid params: "
	prefixInternal      = "internal error: "
)

// toolError converts a core error into a tool error result.
func toolError(err error) *mcp.CallToolResult {
	switch {
	case errors.Is(err, catalog.ErrMissingArgument),
		errors.Is(err, catalog.ErrInvalidArgument),
		errors.Is(err, catalog.ErrNotFound):
		return mcp.NewToolResultError(prefixInvalidParams + err.Error())
	case errors.Is(err, catalog.ErrNotLoaded):
		return mcp.NewToolResultError(prefixInternal + err.Error() + " (run " + ToolRefresh + " after adding the tokens file)")
	default:
		return mcp.NewToolResultError(prefixInternal + err.Error())
	}
}

// resourceError classifies a resource read failure. mcp-go reports every
// resource handler error as INTERNAL_ERROR, so the class is carried by the
// message prefix.
func resourceError(err error) error {
	switch {
	case errors.Is(err, catalog.ErrNotFound),
		errors.Is(err, catalog.ErrUnknownResource):
		return fmt.Errorf("%s%w", prefixInvalidParams, err)
	default:
		return fmt.Errorf("%s%w", prefixInternal, err)
	}
}
