/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package model defines the provider-independent boundary between the agents
// and the language models they call. Implementations live in the
// claudemodel, googlemodel and openaimodel subpackages.
package model

import (
	"context"

	"chainguard.dev/repochat/agents/conversation"
	"chainguard.dev/repochat/agents/toolcall"
)

// ToolChoice constrains whether the model may, must or must not call tools.
type ToolChoice int

const (
	// ToolChoiceAuto lets the model decide.
	ToolChoiceAuto ToolChoice = iota
	// ToolChoiceRequired forces at least one tool call.
	ToolChoiceRequired
	// ToolChoiceNone withholds tools so the model answers in text.
	ToolChoiceNone
)

func (c ToolChoice) String() string {
	switch c {
	case ToolChoiceRequired:
		return "required"
	case ToolChoiceNone:
		return "none"
	default:
		return "auto"
	}
}

// Request is a single model turn.
type Request struct {
	// System is the system instruction. Messages with RoleSystem are
	// appended to it by providers without a native system role.
	System     string
	Messages   []conversation.Message
	Tools      []toolcall.Definition
	ToolChoice ToolChoice
}

// Usage reports token consumption for one turn.
type Usage struct {
	InputTokens  int64
	OutputTokens int64
}

// Response is the model's reply to a Request.
type Response struct {
	Text      string
	ToolCalls []conversation.ToolCall
	Usage     Usage
}

// Model generates one response for a request. Implementations retry
// transient provider errors internally.
type Model interface {
	Name() string
	Generate(ctx context.Context, req *Request) (*Response, error)
}

// SystemText joins the request's system instruction with any system-role
// messages, for providers that take the instruction out of band.
func SystemText(req *Request) string {
	text := req.System
	for _, m := range req.Messages {
		if m.Role != conversation.RoleSystem || m.Content == "" {
			continue
		}
		if text != "" {
			text += "\n\n"
		}
		text += m.Content
	}
	return text
}
