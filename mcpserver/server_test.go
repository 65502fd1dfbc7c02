/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"chainguard.dev/repochat/agents/toolcall"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/require"
)

func testRegistry(t *testing.T) *toolcall.Registry {
	t.Helper()
	r, err := toolcall.NewRegistry(
		toolcall.Tool{
			Def: toolcall.Definition{
				Name:        "get_repo_structure",
				Description: "Render the tree.",
				Parameters:  []toolcall.Parameter{{Name: "repo_name", Type: "string", Required: true}},
			},
			Handler: func(_ context.Context, call toolcall.ToolCall) (any, error) {
				repo, err := toolcall.Param[string](call, nil, "repo_name")
				if err != nil {
					return nil, err
				}
				return repo + "/\n    main.py\n", nil
			},
		},
		toolcall.Tool{
			Def: toolcall.Definition{Name: "broken"},
			Handler: func(context.Context, toolcall.ToolCall) (any, error) {
				return nil, errors.New("clone failed")
			},
		},
	)
	require.NoError(t, err)
	return r
}

func call(name string, args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.Len(t, res.Content, 1)
	tc, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "content is %T", res.Content[0])
	return tc.Text
}

func TestHandler(t *testing.T) {
	reg := testRegistry(t)

	res, err := Handler(reg, "get_repo_structure")(context.Background(), call("get_repo_structure", map[string]any{"repo_name": "demo"}))
	require.NoError(t, err)
	require.False(t, res.IsError)
	require.Equal(t, "demo/\n    main.py\n", text(t, res))

	res, err = Handler(reg, "broken")(context.Background(), call("broken", nil))
	require.NoError(t, err)
	require.True(t, res.IsError)
	require.Contains(t, text(t, res), "clone failed")

	res, err = Handler(reg, "get_repo_structure")(context.Background(), call("get_repo_structure", nil))
	require.NoError(t, err)
	require.True(t, res.IsError)
	require.Contains(t, text(t, res), "repo_name parameter is required")
}

func TestTool(t *testing.T) {
	tool, err := Tool(toolcall.Definition{
		Name:        "code_search",
		Description: "Search.",
		Parameters: []toolcall.Parameter{
			{Name: "repo_name", Type: "string", Required: true},
			{Name: "file_extensions", Type: "array", Items: "string"},
		},
	})
	require.NoError(t, err)
	require.Equal(t, "code_search", tool.Name)
	require.Equal(t, "Search.", tool.Description)

	b, err := json.Marshal(tool)
	require.NoError(t, err)
	var got struct {
		InputSchema struct {
			Type       string                    `json:"type"`
			Properties map[string]map[string]any `json:"properties"`
			Required   []string                  `json:"required"`
		} `json:"inputSchema"`
	}
	require.NoError(t, json.Unmarshal(b, &got))
	require.Equal(t, "object", got.InputSchema.Type)
	require.Equal(t, []string{"repo_name"}, got.InputSchema.Required)
	require.Equal(t, "array", got.InputSchema.Properties["file_extensions"]["type"])
}

func TestNew(t *testing.T) {
	s, err := New(testRegistry(t), "test")
	require.NoError(t, err)

	ctx := context.Background()
	s.HandleMessage(ctx, []byte(`{"jsonrpc":"2.0","id":0,"method":"initialize","params":{"protocolVersion":"2024-11-05","capabilities":{},"clientInfo":{"name":"test","version":"1"}}}`))
	resp := s.HandleMessage(ctx, []byte(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))

	b, err := json.Marshal(resp)
	require.NoError(t, err)
	var list struct {
		Result struct {
			Tools []struct {
				Name string `json:"name"`
			} `json:"tools"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(b, &list))
	var names []string
	for _, tool := range list.Result.Tools {
		names = append(names, tool.Name)
	}
	require.ElementsMatch(t, []string{"broken", "get_repo_structure"}, names)
}
