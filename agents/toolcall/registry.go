/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package toolcall

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"chainguard.dev/repochat/agents/agenttrace"
	"chainguard.dev/repochat/agents/metrics"
	"github.com/chainguard-dev/clog"
)

// Invoker is the view of a Registry that the step executor needs.
type Invoker interface {
	Definitions() []Definition
	Invoke(ctx context.Context, call ToolCall, trace *agenttrace.Trace) (string, error)
}

// Registry maps tool names to tools. It is safe for concurrent Invoke calls
// once registration is complete.
type Registry struct {
	tools   map[string]Tool
	metrics *metrics.GenAI
}

var _ Invoker = (*Registry)(nil)

// NewRegistry returns a Registry holding tools.
func NewRegistry(tools ...Tool) (*Registry, error) {
	r := &Registry{
		tools:   make(map[string]Tool, len(tools)),
		metrics: metrics.NewGenAI(metrics.MeterName),
	}
	if err := r.Register(tools...); err != nil {
		return nil, err
	}
	return r, nil
}

// Register adds tools, rejecting duplicate or incomplete entries.
func (r *Registry) Register(tools ...Tool) error {
	for _, t := range tools {
		switch {
		case t.Def.Name == "":
			return errors.New("tool definition has no name")
		case t.Handler == nil:
			return fmt.Errorf("tool %q has no handler", t.Def.Name)
		}
		if _, exists := r.tools[t.Def.Name]; exists {
			return fmt.Errorf("tool %q already registered", t.Def.Name)
		}
		r.tools[t.Def.Name] = t
	}
	return nil
}

// Definitions returns every tool definition ordered by name.
func (r *Registry) Definitions() []Definition {
	defs := make([]Definition, 0, len(r.tools))
	for _, t := range r.tools {
		defs = append(defs, t.Def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	return defs
}

// Invoke runs the named tool and renders its result as text. It returns a
// *ToolNotFoundError for unknown names and an *ExecutionError when the
// handler fails. The call is recorded on trace when trace is non-nil.
func (r *Registry) Invoke(ctx context.Context, call ToolCall, trace *agenttrace.Trace) (string, error) {
	log := clog.FromContext(ctx).With("tool", call.Name, "id", call.ID)

	t, ok := r.tools[call.Name]
	if !ok {
		err := &ToolNotFoundError{Name: call.Name}
		log.Error("Unknown tool requested")
		if trace != nil {
			trace.BadToolCall(call.ID, call.Name, call.Args, err)
		}
		r.metrics.RecordToolCall(ctx, call.Name, true)
		return "", err
	}

	var tc *agenttrace.ToolCall
	if trace != nil {
		tc = trace.StartToolCall(call.ID, call.Name, call.Args)
	}
	log.Info("Executing tool call")

	text, err := r.run(ctx, t, call)
	if tc != nil {
		tc.Complete(text, err)
	}
	r.metrics.RecordToolCall(ctx, call.Name, err != nil)
	if err != nil {
		log.With("error", err).Warn("Tool call failed")
		return "", err
	}
	return text, nil
}

func (r *Registry) run(ctx context.Context, t Tool, call ToolCall) (text string, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = &ExecutionError{Tool: call.Name, Err: fmt.Errorf("panic: %v", p)}
		}
	}()

	out, err := t.Handler(ctx, call)
	if err != nil {
		return "", &ExecutionError{Tool: call.Name, Err: err}
	}
	switch v := out.(type) {
	case string:
		return v, nil
	case nil:
		return "", nil
	}
	b, err := json.Marshal(out)
	if err != nil {
		return "", &ExecutionError{Tool: call.Name, Err: fmt.Errorf("failed to marshal tool result: %w", err)}
	}
	return string(b), nil
}
