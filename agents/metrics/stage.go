/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package metrics

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
)

type stageKey struct{}

// WithStage tags metrics recorded under ctx with the orchestration stage
// ("plan", "step", "replan", "finalize", "summarize").
func WithStage(ctx context.Context, stage string) context.Context {
	return context.WithValue(ctx, stageKey{}, stage)
}

// Stage returns the stage set by WithStage, or "".
func Stage(ctx context.Context) string {
	s, _ := ctx.Value(stageKey{}).(string)
	return s
}

// enrich appends bounded contextual attributes to base.
func enrich(ctx context.Context, base ...attribute.KeyValue) []attribute.KeyValue {
	if s := Stage(ctx); s != "" {
		base = append(base, attribute.String("stage", s))
	}
	return base
}
