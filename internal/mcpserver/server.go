// Package mcpserver exposes the operation registry over the Model Context
// Protocol on stdio, so any MCP-capable client can drive the accounting
// tools directly without the conversational loop.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/oreem-dev/pouch-agent/pkg/dispatch"
	"github.com/oreem-dev/pouch-agent/pkg/tools"
)

const (
	serverName    = "pouch-accounting"
	serverVersion = "1.0.0"
)

// Server bridges MCP tool calls to the dispatcher.
type Server struct {
	mcp        *server.MCPServer
	dispatcher *dispatch.Dispatcher
	toolCtx    *tools.Context
	log        *zap.Logger
}

// New builds an MCP server exposing every operation in the registry.
func New(registry *tools.Registry, dispatcher *dispatch.Dispatcher, tc *tools.Context, log *zap.Logger) (*Server, error) {
	if log == nil {
		log = zap.NewNop()
	}

	s := &Server{
		mcp:        server.NewMCPServer(serverName, serverVersion, server.WithToolCapabilities(false)),
		dispatcher: dispatcher,
		toolCtx:    tc,
		log:        log,
	}

	for _, def := range registry.Export() {
		tool, err := convertDefinition(def)
		if err != nil {
			return nil, fmt.Errorf("converting tool %q: %w", def.Name, err)
		}
		s.mcp.AddTool(tool, s.handlerFor(def.Name))
	}

	return s, nil
}

// ServeStdio blocks serving MCP over stdin/stdout until the client
// disconnects.
func (s *Server) ServeStdio() error {
	s.log.Info("serving MCP on stdio", zap.String("server", serverName))
	return server.ServeStdio(s.mcp)
}

func (s *Server) handlerFor(name string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result := s.dispatcher.Dispatch(ctx, dispatch.Request{
			Name:      name,
			Arguments: req.GetArguments(),
		}, s.toolCtx)
		return mcp.NewToolResultText(result), nil
	}
}

// convertDefinition turns a registry definition into an MCP tool. The
// input schema already serializes to JSON Schema, so it passes through
// as a raw document.
func convertDefinition(def tools.Definition) (mcp.Tool, error) {
	raw, err := json.Marshal(def.Schema)
	if err != nil {
		return mcp.Tool{}, err
	}
	return mcp.NewToolWithRawSchema(def.Name, def.Description, json.RawMessage(raw)), nil
}
