/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package agenttrace records what happened during one model-driven stage of
// a run: the prompt, every tool call with its arguments and outcome, token
// usage and the final result. Each trace is mirrored as an OpenTelemetry
// span with one child span per tool call, and handed to a Tracer when it
// completes.
//
// The Tracer is carried in the context:
//
//	ctx = agenttrace.WithTracer(ctx, agenttrace.ByCode(func(t *agenttrace.Trace) {
//		fmt.Println(t)
//	}))
//	trace := agenttrace.StartTrace(ctx, "step", prompt)
//	defer func() { trace.Complete(answer, err) }()
package agenttrace
