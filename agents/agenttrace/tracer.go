/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package agenttrace

import (
	"context"
	"sync"

	"github.com/chainguard-dev/clog"
)

// Tracer receives completed traces.
type Tracer interface {
	RecordTrace(*Trace)
}

// ByCode adapts a function into a Tracer.
type ByCode func(*Trace)

// RecordTrace implements Tracer.
func (f ByCode) RecordTrace(t *Trace) { f(t) }

// Recorder keeps every completed trace in memory.
type Recorder struct {
	mu     sync.Mutex
	traces []*Trace
}

// RecordTrace implements Tracer.
func (r *Recorder) RecordTrace(t *Trace) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.traces = append(r.traces, t)
}

// Traces returns the traces recorded so far.
func (r *Recorder) Traces() []*Trace {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*Trace(nil), r.traces...)
}

// NewDefaultTracer logs completed traces at debug level through the logger in ctx.
func NewDefaultTracer(ctx context.Context) Tracer {
	log := clog.FromContext(ctx)
	return ByCode(func(t *Trace) {
		log.With(
			"trace_id", t.ID,
			"stage", t.Stage,
			"duration_ms", t.Duration().Milliseconds(),
			"tool_calls", len(t.ToolCalls),
		).Debug("Agent trace completed", "trace", t.String())
	})
}

type tracerKey struct{}

// WithTracer returns a context whose traces are delivered to tr.
func WithTracer(ctx context.Context, tr Tracer) context.Context {
	return context.WithValue(ctx, tracerKey{}, tr)
}

// TracerFromContext returns the Tracer in ctx, or a default logging tracer.
func TracerFromContext(ctx context.Context) Tracer {
	if tr, ok := ctx.Value(tracerKey{}).(Tracer); ok && tr != nil {
		return tr
	}
	return NewDefaultTracer(ctx)
}
