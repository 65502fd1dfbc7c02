/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package evals

import (
	"fmt"
	"maps"
	"slices"

	"chainguard.dev/repochat/agents/agenttrace"
)

// ExactToolCalls validates that the trace has exactly n tool calls.
func ExactToolCalls(n int) Check {
	return func(o Observer, t *agenttrace.Trace) {
		if got := len(t.ToolCalls); got != n {
			o.Fail(fmt.Sprintf("%s: tool call count: got = %d, wanted = %d", t.Stage, got, n))
		}
	}
}

// MaximumNToolCalls validates that the trace has at most n tool calls.
func MaximumNToolCalls(n int) Check {
	return func(o Observer, t *agenttrace.Trace) {
		if got := len(t.ToolCalls); got > n {
			o.Fail(fmt.Sprintf("%s: tool call count: got = %d, wanted <= %d", t.Stage, got, n))
		}
	}
}

// NoToolCalls validates that the trace made no tool calls.
func NoToolCalls() Check {
	return ExactToolCalls(0)
}

// OnlyToolCalls validates that the trace uses no tools besides names.
func OnlyToolCalls(names ...string) Check {
	allowed := make(map[string]struct{}, len(names))
	for _, name := range names {
		allowed[name] = struct{}{}
	}
	return func(o Observer, t *agenttrace.Trace) {
		for _, tc := range t.ToolCalls {
			if _, ok := allowed[tc.Name]; !ok {
				o.Fail(fmt.Sprintf("%s: unexpected tool call %q, only allowed: %v", t.Stage, tc.Name, names))
				return
			}
		}
	}
}

// RequiredToolCalls validates that the trace calls each of names at least
// once.
func RequiredToolCalls(names ...string) Check {
	base := make(map[string]struct{}, len(names))
	for _, name := range names {
		base[name] = struct{}{}
	}
	return func(o Observer, t *agenttrace.Trace) {
		required := maps.Clone(base)
		for _, tc := range t.ToolCalls {
			delete(required, tc.Name)
		}
		if len(required) > 0 {
			missing := slices.Sorted(maps.Keys(required))
			o.Fail(fmt.Sprintf("%s: missing required tool calls: %v", t.Stage, missing))
		}
	}
}

// ToolCallNamed validates every call of the named tool with validate, and
// fails when the tool was never called.
func ToolCallNamed(name string, validate func(*agenttrace.ToolCall) error) Check {
	return func(o Observer, t *agenttrace.Trace) {
		found := false
		for _, tc := range t.ToolCalls {
			if tc.Name != name {
				continue
			}
			found = true
			if err := validate(tc); err != nil {
				o.Fail(fmt.Sprintf("%s: tool call %s validation failed: %v", t.Stage, name, err))
				return
			}
		}
		if !found {
			o.Fail(fmt.Sprintf("%s: tool call named %q: got = not found, wanted = found", t.Stage, name))
		}
	}
}

// NoErrors validates that neither the trace nor any of its tool calls
// failed.
func NoErrors() Check {
	return func(o Observer, t *agenttrace.Trace) {
		if t.Error != nil {
			o.Fail(fmt.Sprintf("%s: trace error: got = %v, wanted = nil", t.Stage, t.Error))
			return
		}
		for _, tc := range t.ToolCalls {
			if tc.Error != nil {
				o.Fail(fmt.Sprintf("%s: tool call %s error: got = %v, wanted = nil", t.Stage, tc.Name, tc.Error))
				return
			}
		}
	}
}

// MaximumTokens validates that the stage used at most n input plus output
// tokens.
func MaximumTokens(n int64) Check {
	return func(o Observer, t *agenttrace.Trace) {
		if got := t.InputTokens + t.OutputTokens; got > n {
			o.Fail(fmt.Sprintf("%s: token usage: got = %d, wanted <= %d", t.Stage, got, n))
		}
	}
}
