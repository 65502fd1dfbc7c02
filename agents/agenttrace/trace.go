/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package agenttrace

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
)

const instrumentationName = "chainguard.dev/repochat/agents/agenttrace"

// ToolCall is a single tool invocation recorded on a Trace.
type ToolCall struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Params    map[string]any `json:"params"`
	Result    string         `json:"result"`
	Error     error          `json:"error,omitempty"`
	StartTime time.Time      `json:"start_time"`
	EndTime   time.Time      `json:"end_time"`

	trace *Trace
	span  oteltrace.Span
	once  sync.Once
}

// Trace is one stage of a run (planning, a step, replanning, finalizing).
type Trace struct {
	ID           string         `json:"id"`
	Stage        string         `json:"stage"`
	InputPrompt  string         `json:"input_prompt"`
	ToolCalls    []*ToolCall    `json:"tool_calls"`
	Model        string         `json:"model,omitempty"`
	InputTokens  int64          `json:"input_tokens"`
	OutputTokens int64          `json:"output_tokens"`
	Result       string         `json:"result"`
	Error        error          `json:"error,omitempty"`
	StartTime    time.Time      `json:"start_time"`
	EndTime      time.Time      `json:"end_time"`
	Metadata     map[string]any `json:"metadata,omitempty"`

	tracer Tracer
	ctx    context.Context
	span   oteltrace.Span
	mu     sync.Mutex
}

func otelTracer() oteltrace.Tracer {
	return otel.Tracer(instrumentationName, oteltrace.WithInstrumentationVersion("1.0.0"))
}

// StartTrace begins a trace for the named stage. The Tracer found in ctx
// receives the trace when Complete is called.
func StartTrace(ctx context.Context, stage, prompt string) *Trace {
	ctx, span := otelTracer().Start(ctx, "agent."+stage, oteltrace.WithAttributes(
		attribute.String("agent.stage", stage),
		attribute.Int("agent.prompt_length", len(prompt)),
	))
	return &Trace{
		ID:          uuid.NewString(),
		Stage:       stage,
		InputPrompt: prompt,
		ToolCalls:   []*ToolCall{},
		StartTime:   time.Now(),
		Metadata:    make(map[string]any),
		tracer:      TracerFromContext(ctx),
		ctx:         ctx,
		span:        span,
	}
}

// Context returns the context carrying this trace's span.
func (t *Trace) Context() context.Context {
	return t.ctx
}

// StartToolCall opens a tool call; the caller must Complete it.
func (t *Trace) StartToolCall(id, name string, params map[string]any) *ToolCall {
	_, span := otelTracer().Start(t.ctx, "agent.tool_call", oteltrace.WithAttributes(
		attribute.String("tool.name", name),
		attribute.String("tool.id", id),
	))
	return &ToolCall{
		ID:        id,
		Name:      name,
		Params:    params,
		StartTime: time.Now(),
		trace:     t,
		span:      span,
	}
}

// BadToolCall records a call that never reached a handler, such as an
// unknown tool name or invalid arguments.
func (t *Trace) BadToolCall(id, name string, params map[string]any, err error) {
	tc := t.StartToolCall(id, name, params)
	tc.Complete("", err)
}

// RecordTokenUsage accumulates token usage for the stage.
func (t *Trace) RecordTokenUsage(model string, inputTokens, outputTokens int64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.Model = model
	t.InputTokens += inputTokens
	t.OutputTokens += outputTokens
	t.span.SetAttributes(
		attribute.String("model", model),
		attribute.Int64("tokens.input", t.InputTokens),
		attribute.Int64("tokens.output", t.OutputTokens),
	)
}

// Complete finishes the tool call and attaches it to its trace.
// Calls after the first are ignored.
func (tc *ToolCall) Complete(result string, err error) {
	tc.once.Do(func() {
		tc.Result = result
		tc.Error = err
		tc.EndTime = time.Now()
		endSpan(tc.span, err)

		tc.trace.mu.Lock()
		defer tc.trace.mu.Unlock()
		tc.trace.ToolCalls = append(tc.trace.ToolCalls, tc)
	})
}

// Duration returns how long the tool call ran.
func (tc *ToolCall) Duration() time.Duration {
	if tc.EndTime.IsZero() {
		return time.Since(tc.StartTime)
	}
	return tc.EndTime.Sub(tc.StartTime)
}

// Complete finishes the trace and hands it to the tracer.
func (t *Trace) Complete(result string, err error) {
	t.mu.Lock()
	t.Result = result
	t.Error = err
	t.EndTime = time.Now()
	t.mu.Unlock()

	endSpan(t.span, err)
	t.tracer.RecordTrace(t)
}

// Duration returns how long the stage ran.
func (t *Trace) Duration() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.EndTime.IsZero() {
		return time.Since(t.StartTime)
	}
	return t.EndTime.Sub(t.StartTime)
}

func endSpan(span oteltrace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// String renders the trace for logs.
func (t *Trace) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	var sb strings.Builder
	fmt.Fprintf(&sb, "=== Trace %s (%s) ===\n", t.ID, t.Stage)
	fmt.Fprintf(&sb, "Prompt: %q\n", truncate(t.InputPrompt, 200))
	if t.Model != "" {
		fmt.Fprintf(&sb, "Model: %s (tokens in=%d out=%d)\n", t.Model, t.InputTokens, t.OutputTokens)
	}

	if len(t.ToolCalls) == 0 {
		sb.WriteString("\nNo tool calls\n")
	} else {
		fmt.Fprintf(&sb, "\nTool Calls (%d):\n", len(t.ToolCalls))
		for i, tc := range t.ToolCalls {
			fmt.Fprintf(&sb, "  [%d] %s (ID: %s)\n", i+1, tc.Name, tc.ID)
			keys := make([]string, 0, len(tc.Params))
			for k := range tc.Params {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(&sb, "        %s: %v\n", k, tc.Params[k])
			}
			if tc.Error != nil {
				fmt.Fprintf(&sb, "      Error: %v\n", tc.Error)
			} else {
				fmt.Fprintf(&sb, "      Result: %s\n", truncate(tc.Result, 200))
			}
		}
	}

	sb.WriteString("\nCompletion:\n")
	if t.Error != nil {
		fmt.Fprintf(&sb, "  Error: %v\n", t.Error)
	} else {
		fmt.Fprintf(&sb, "  Result: %s\n", truncate(t.Result, 500))
	}
	return sb.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
