/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package mcpserver exposes a tool registry over the Model Context Protocol,
// so other agents can call the repository tools.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"chainguard.dev/repochat/agents/toolcall"
	"github.com/chainguard-dev/clog"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Name is the server name reported to MCP clients.
const Name = "repochat-git"

const instructions = `Tools for answering questions about GitHub repositories. Repositories are named org/name and are cloned on first use. Prefer get_repo_structure before reading individual files.`

// New returns an MCP server offering every tool of reg.
func New(reg toolcall.Invoker, version string) (*server.MCPServer, error) {
	s := server.NewMCPServer(
		Name,
		version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
		server.WithInstructions(instructions),
	)
	for _, def := range reg.Definitions() {
		tool, err := Tool(def)
		if err != nil {
			return nil, err
		}
		s.AddTool(tool, Handler(reg, def.Name))
	}
	return s, nil
}

// Tool converts a registry definition into an MCP tool.
func Tool(def toolcall.Definition) (mcp.Tool, error) {
	schema, err := json.Marshal(def.InputSchema())
	if err != nil {
		return mcp.Tool{}, fmt.Errorf("marshaling input schema of %s: %w", def.Name, err)
	}
	return mcp.NewToolWithRawSchema(def.Name, def.Description, schema), nil
}

// Handler forwards MCP calls of the named tool to reg. Tool failures are
// returned as error results rather than protocol errors, so the calling
// model sees them.
func Handler(reg toolcall.Invoker, name string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		call := toolcall.ToolCall{
			ID:   "mcp-" + uuid.NewString(),
			Name: name,
			Args: req.GetArguments(),
		}
		text, err := reg.Invoke(ctx, call, nil)
		if err != nil {
			clog.FromContext(ctx).With("tool", name).With("error", err).Warn("MCP tool call failed")
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(text), nil
	}
}
