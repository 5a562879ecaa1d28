// Package mcpserver exposes the tool registry over the Model Context
// Protocol on stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/pagepulse/pagepulse/internal/schema"
	"github.com/pagepulse/pagepulse/internal/tools"
)

// Server adapts a tools.Registry to an MCP stdio server.
type Server struct {
	registry *tools.Registry
	mcp      *server.MCPServer
}

// New builds the MCP server and registers every tool definition. The schema
// attached to each definition is the same declaration that validates
// arguments on execution.
func New(registry *tools.Registry, version string) *Server {
	s := server.NewMCPServer("pagepulse", version,
		server.WithToolCapabilities(false),
	)

	list := registry.AllTools()
	for _, def := range list.Definitions() {
		tool := mcp.NewToolWithRawSchema(def.Name, def.Description, def.InputSchema)
		s.AddTool(tool, handler(registry))
	}

	return &Server{registry: registry, mcp: s}
}

// Serve runs the stdio transport until ctx is cancelled or stdin closes.
func (s *Server) Serve(ctx context.Context) error {
	slog.Info("mcpserver: listening on stdio", "tools", s.registry.AllTools().Len())
	return server.NewStdioServer(s.mcp).Listen(ctx, os.Stdin, os.Stdout)
}

// handler dispatches one call through the registry and renders the outcome
// as an MCP tool result. Validation failures and remote errors become error
// results; they never crash the session.
func handler(registry *tools.Registry) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name := tools.ToolName(req.Params.Name)
		out, err := registry.Dispatch(ctx, name, req.GetArguments())
		if err != nil {
			slog.Warn("mcpserver: tool call failed", "tool", req.Params.Name, "err", err)
			return mcp.NewToolResultError(renderError(err)), nil
		}
		return mcp.NewToolResultText(out), nil
	}
}

// renderError formats errors for the MCP client. Validation failures carry
// their per-field detail as JSON so callers can repair arguments.
func renderError(err error) string {
	var verr *schema.ValidationError
	if errors.As(err, &verr) {
		detail, merr := json.Marshal(map[string]any{
			"error":  "invalid arguments",
			"fields": verr.Fields,
		})
		if merr == nil {
			return string(detail)
		}
	}
	return err.Error()
}
