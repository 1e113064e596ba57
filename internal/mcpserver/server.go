// Package mcpserver exposes the inventory tools over the Model Context
// Protocol on stdio.
package mcpserver

import (
	"context"
	"io"
	stdlog "log"

	"github.com/andresuchdata/inventory-manager/internal/config"
	"github.com/andresuchdata/inventory-manager/internal/service"
	"github.com/andresuchdata/inventory-manager/pkg/logger"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Dispatcher runs a named tool. Implemented by service.InventoryService.
type Dispatcher interface {
	Dispatch(ctx context.Context, name string, args map[string]any) service.ToolResult
}

var _ Dispatcher = (*service.InventoryService)(nil)

// New registers every catalog tool on a fresh MCP server.
func New(cfg config.MCPConfig, dispatcher Dispatcher) *server.MCPServer {
	s := server.NewMCPServer(
		cfg.Name,
		cfg.Version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	for _, tool := range service.Tools() {
		s.AddTool(toMCPTool(tool), handlerFor(tool.Name, dispatcher))
	}

	return s
}

func toMCPTool(tool service.Tool) mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(tool.Description)}
	for name, prop := range tool.InputSchema.Properties {
		if prop.Type == "string" {
			opts = append(opts, mcp.WithString(name, mcp.Description(prop.Description)))
		}
	}
	return mcp.NewTool(tool.Name, opts...)
}

func handlerFor(name string, dispatcher Dispatcher) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		res := dispatcher.Dispatch(ctx, name, request.GetArguments())
		if res.IsError {
			return mcp.NewToolResultError(res.Text), nil
		}
		return mcp.NewToolResultText(res.Text), nil
	}
}

// Serve speaks MCP over in/out until ctx is cancelled or in reaches EOF.
func Serve(ctx context.Context, s *server.MCPServer, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(s)
	stdio.SetErrorLogger(stdlog.New(logger.Log, "mcp: ", 0))

	logger.Log.Info().Msg("mcp: serving on stdio")
	return stdio.Listen(ctx, in, out)
}
