/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package modeltest provides scripted model.Model fakes for tests.
package modeltest

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"chainguard.dev/repochat/agents/conversation"
	"chainguard.dev/repochat/agents/model"
)

// Turn is one scripted reply.
type Turn struct {
	Response *model.Response
	Err      error
}

// Text scripts a text-only reply.
func Text(s string) Turn {
	return Turn{Response: &model.Response{Text: s}}
}

// Calls scripts a reply requesting tool calls.
func Calls(calls ...conversation.ToolCall) Turn {
	return Turn{Response: &model.Response{ToolCalls: calls}}
}

// Call is shorthand for a single tool call.
func Call(id, name string, args map[string]any) conversation.ToolCall {
	return conversation.ToolCall{ID: id, Name: name, Args: args}
}

// Fail scripts an error.
func Fail(err error) Turn {
	return Turn{Err: err}
}

// Model replays its turns in order and records every request it receives.
// Generate fails once the script is exhausted.
type Model struct {
	name string

	mu       sync.Mutex
	turns    []Turn
	requests []model.Request
}

var _ model.Model = (*Model)(nil)

// New returns a Model that replays turns.
func New(name string, turns ...Turn) *Model {
	return &Model{name: name, turns: turns}
}

func (m *Model) Name() string { return m.name }

func (m *Model) Generate(ctx context.Context, req *model.Request) (*model.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *req
	cp.Messages = slices.Clone(req.Messages)
	cp.Tools = slices.Clone(req.Tools)
	m.requests = append(m.requests, cp)

	if len(m.requests) > len(m.turns) {
		return nil, fmt.Errorf("%s: no scripted turn for request %d", m.name, len(m.requests))
	}
	turn := m.turns[len(m.requests)-1]
	return turn.Response, turn.Err
}

// Requests returns copies of the requests received so far.
func (m *Model) Requests() []model.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.requests)
}

// Calls returns the number of Generate calls.
func (m *Model) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// Func adapts a function to model.Model, for fakes whose reply depends on
// the request.
type Func func(ctx context.Context, req *model.Request) (*model.Response, error)

func (Func) Name() string { return "func" }

func (f Func) Generate(ctx context.Context, req *model.Request) (*model.Response, error) {
	return f(ctx, req)
}
