/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package metrics provides OpenTelemetry instruments for model and tool usage.
package metrics

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// MeterName is the meter shared by every model implementation; the model
// name is recorded as an attribute.
const MeterName = "chainguard.dev/repochat/agents"

// GenAI records token usage, model latency and tool calls.
// Instruments that fail to initialize degrade to no-ops.
type GenAI struct {
	promptTokens     metric.Int64Counter
	completionTokens metric.Int64Counter
	toolCalls        metric.Int64Counter
	toolErrors       metric.Int64Counter
	latency          metric.Float64Histogram
}

// NewGenAI creates the instruments on the named meter.
func NewGenAI(meterName string) *GenAI {
	meter := otel.Meter(meterName, metric.WithInstrumentationVersion("1.0.0"))

	counter := func(name, desc, unit string) metric.Int64Counter {
		c, err := meter.Int64Counter(name, metric.WithDescription(desc), metric.WithUnit(unit))
		if err != nil {
			slog.Warn("Failed to create counter, metrics will be disabled", "error", err, "counter", name)
			return noop.Int64Counter{}
		}
		return c
	}

	latency, err := meter.Float64Histogram("genai.request.duration",
		metric.WithDescription("Latency of model requests"),
		metric.WithUnit("s"))
	if err != nil {
		slog.Warn("Failed to create latency histogram, metrics will be disabled", "error", err)
		latency = noop.Float64Histogram{}
	}

	return &GenAI{
		promptTokens:     counter("genai.token.prompt", "The number of prompt tokens used", "{tokens}"),
		completionTokens: counter("genai.token.completion", "The number of completion tokens used", "{tokens}"),
		toolCalls:        counter("genai.tool.calls", "The number of tool calls made during execution", "{calls}"),
		toolErrors:       counter("genai.tool.errors", "The number of tool calls that returned an error", "{calls}"),
		latency:          latency,
	}
}

// RecordTokens records prompt and completion token usage for model.
func (m *GenAI) RecordTokens(ctx context.Context, model string, promptTokens, completionTokens int64) {
	attrs := metric.WithAttributes(enrich(ctx, attribute.String("model", model))...)
	m.promptTokens.Add(ctx, promptTokens, attrs)
	m.completionTokens.Add(ctx, completionTokens, attrs)
}

// RecordLatency records the duration of one model request.
func (m *GenAI) RecordLatency(ctx context.Context, model string, d time.Duration) {
	m.latency.Record(ctx, d.Seconds(), metric.WithAttributes(enrich(ctx, attribute.String("model", model))...))
}

// RecordToolCall records one tool invocation and whether it failed.
func (m *GenAI) RecordToolCall(ctx context.Context, toolName string, failed bool) {
	attrs := metric.WithAttributes(enrich(ctx, attribute.String("tool", toolName))...)
	m.toolCalls.Add(ctx, 1, attrs)
	if failed {
		m.toolErrors.Add(ctx, 1, attrs)
	}
}
