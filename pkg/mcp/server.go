package mcp

import (
	"context"
	"io"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/gnana997/carbonmcp/pkg/catalog"
	"github.com/gnana997/carbonmcp/pkg/mcplog"
	"github.com/gnana997/carbonmcp/pkg/render"
)

const serverName = "carbon-mcp"

// Version is reported in the initialize handshake. Overridden at build time.
var Version = "0.1.0-dev"

// Refresher reloads the catalog from its sources.
type Refresher interface {
	Refresh() (catalog.LoadStats, error)
}

// ToolObserver records tool call outcomes.
type ToolObserver interface {
	ObserveToolCall(tool, status string, duration time.Duration)
}

// Config wires the server's dependencies. Query and Renderer are required.
type Config struct {
	Query     *catalog.QueryService
	Renderer  *render.Renderer
	Refresher Refresher // nil makes carbon.refresh report an error
	ToolLog   *mcplog.Logger
	Metrics   ToolObserver
	Logger    *zap.Logger
}

// Server implements the MCP server exposing catalog tools and resources.
type Server struct {
	mcpServer *server.MCPServer
	query     *catalog.QueryService
	renderer  *render.Renderer
	refresher Refresher
	toolLog   *mcplog.Logger
	metrics   ToolObserver
	logger    *zap.Logger
}

// NewServer creates a new MCP server from cfg.
func NewServer(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		query:     cfg.Query,
		renderer:  cfg.Renderer,
		refresher: cfg.Refresher,
		toolLog:   cfg.ToolLog,
		metrics:   cfg.Metrics,
		logger:    logger.Named("mcp"),
	}

	s.mcpServer = server.NewMCPServer(
		serverName,
		Version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithRecovery(),
		server.WithToolHandlerMiddleware(s.observeMiddleware()),
	)

	s.mcpServer.AddTools(
		server.ServerTool{Tool: listTool(), Handler: s.handleList},
		server.ServerTool{Tool: searchTool(), Handler: s.handleSearch},
		server.ServerTool{Tool: getTool(), Handler: s.handleGet},
		server.ServerTool{Tool: propsTool(), Handler: s.handleProps},
		server.ServerTool{Tool: suggestTool(), Handler: s.handleSuggest},
		server.ServerTool{Tool: tokensTool(), Handler: s.handleTokens},
		server.ServerTool{Tool: iconsSearchTool(), Handler: s.handleIconsSearch},
		server.ServerTool{Tool: pictogramsSearchTool(), Handler: s.handlePictogramsSearch},
		server.ServerTool{Tool: refreshTool(), Handler: s.handleRefresh},
	)
	s.registerResources()

	return s
}

// MCPServer returns the underlying mcp-go server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// Serve runs the stdio transport over in/out until ctx is done or in is
// closed. Transport errors go to the server's logger.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(s.mcpServer)
	stdio.SetErrorLogger(zap.NewStdLog(s.logger))
	s.logger.Info("serving MCP over stdio")
	return stdio.Listen(ctx, in, out)
}
