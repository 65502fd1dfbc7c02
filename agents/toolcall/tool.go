/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package toolcall

import (
	"context"
	"fmt"

	"chainguard.dev/repochat/agents/agenttrace"
	"chainguard.dev/repochat/agents/conversation"
	"chainguard.dev/repochat/agents/toolcall/params"
)

// ToolCall is a model's request to run a tool.
type ToolCall = conversation.ToolCall

// Definition describes a tool's name, purpose and arguments.
type Definition struct {
	Name        string
	Description string
	Parameters  []Parameter
}

// Parameter describes one tool argument.
type Parameter struct {
	Name        string
	Type        string // "string", "integer", "number", "boolean", "array"
	Items       string // element type when Type is "array"
	Description string
	Required    bool
}

// InputSchema renders the parameters as a JSON schema object.
func (d Definition) InputSchema() map[string]any {
	props := make(map[string]any, len(d.Parameters))
	required := []string{}
	for _, p := range d.Parameters {
		prop := map[string]any{
			"type":        p.Type,
			"description": p.Description,
		}
		if p.Type == "array" {
			items := p.Items
			if items == "" {
				items = "string"
			}
			prop["items"] = map[string]any{"type": items}
		}
		props[p.Name] = prop
		if p.Required {
			required = append(required, p.Name)
		}
	}
	return map[string]any{
		"type":       "object",
		"properties": props,
		"required":   required,
	}
}

// Handler runs a tool. The returned value is rendered as text by the Registry.
type Handler func(ctx context.Context, call ToolCall) (any, error)

// Tool pairs a definition with its handler.
type Tool struct {
	Def     Definition
	Handler Handler
}

// Param extracts a required argument, recording a bad call on trace when it
// is missing or has the wrong type.
func Param[T any](call ToolCall, trace *agenttrace.Trace, name string) (T, error) {
	v, err := params.Extract[T](call.Args, name)
	if err != nil && trace != nil {
		trace.BadToolCall(call.ID, call.Name, call.Args, fmt.Errorf("invalid %s parameter: %w", name, err))
	}
	return v, err
}

// OptionalParam extracts an optional argument, returning def when absent.
func OptionalParam[T any](call ToolCall, name string, def T) (T, error) {
	return params.ExtractOptional(call.Args, name, def)
}
