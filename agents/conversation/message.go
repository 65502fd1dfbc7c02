/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package conversation

import (
	"maps"

	"github.com/google/uuid"
)

// Role identifies the author of a Message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
	RoleSystem    Role = "system"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAssistant, RoleTool, RoleSystem:
		return true
	}
	return false
}

// ToolCall is a tool invocation requested by an assistant turn.
type ToolCall struct {
	ID   string         `json:"id"`
	Name string         `json:"name"`
	Args map[string]any `json:"args,omitempty"`
}

// Message is one turn in a conversation.
type Message struct {
	ID         string     `json:"id"`
	Role       Role       `json:"role"`
	Content    string     `json:"content"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
}

// User returns a user message.
func User(content string) Message {
	return Message{ID: uuid.NewString(), Role: RoleUser, Content: content}
}

// System returns a system message.
func System(content string) Message {
	return Message{ID: uuid.NewString(), Role: RoleSystem, Content: content}
}

// Assistant returns an assistant message carrying text only.
func Assistant(content string) Message {
	return Message{ID: uuid.NewString(), Role: RoleAssistant, Content: content}
}

// AssistantToolCalls returns an assistant message requesting the given tool calls.
// Calls without an ID are assigned one so that results can reference them.
func AssistantToolCalls(content string, calls ...ToolCall) Message {
	cp := make([]ToolCall, len(calls))
	for i, c := range calls {
		cp[i] = c.clone()
		if cp[i].ID == "" {
			cp[i].ID = "call_" + uuid.NewString()
		}
	}
	return Message{ID: uuid.NewString(), Role: RoleAssistant, Content: content, ToolCalls: cp}
}

// ToolResult returns the result of the tool call identified by toolCallID.
func ToolResult(toolCallID, content string) Message {
	return Message{ID: uuid.NewString(), Role: RoleTool, Content: content, ToolCallID: toolCallID}
}

// Clone returns a deep copy of m.
func (m Message) Clone() Message {
	if m.ToolCalls == nil {
		return m
	}
	calls := make([]ToolCall, len(m.ToolCalls))
	for i, c := range m.ToolCalls {
		calls[i] = c.clone()
	}
	m.ToolCalls = calls
	return m
}

func (c ToolCall) clone() ToolCall {
	c.Args = maps.Clone(c.Args)
	return c
}
