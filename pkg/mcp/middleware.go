package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/gnana997/carbonmcp/pkg/mcplog"
)

// observeMiddleware records every tool call in the JSONL tool log, the
// metrics observer and the debug log. Both sinks are optional.
func (s *Server) observeMiddleware() server.ToolHandlerMiddleware {
	return func(next server.ToolHandlerFunc) server.ToolHandlerFunc {
		return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			start := mcplog.Now()
			result, err := next(ctx, req)

			entry := mcplog.NewEntry(req.Params.Name, req.GetArguments(), start, result, err)
			if werr := s.toolLog.Write(entry); werr != nil {
				s.logger.Warn("tool log write failed", zap.Error(werr))
			}
			if s.metrics != nil {
				s.metrics.ObserveToolCall(entry.Tool, entry.Status, mcplog.Now().Sub(start))
			}
			s.logger.Debug("tool call",
				zap.String("tool", entry.Tool),
				zap.String("status", entry.Status),
				zap.Int64("duration_ms", entry.DurationMs),
				zap.Int("response_bytes", entry.ResponseBytes),
			)

			return result, err
		}
	}
}
