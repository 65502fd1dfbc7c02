/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package evals

import (
	"chainguard.dev/repochat/agents/agenttrace"
)

// Observer receives the outcome of checks.
type Observer interface {
	// Fail marks the evaluation as failed with the given message.
	Fail(string)
	// Log records a message.
	Log(string)
	// Increment is called once per evaluated trace.
	Increment()
	// Total returns the number of evaluated traces.
	Total() int64
}

// Check inspects one completed trace.
type Check func(Observer, *agenttrace.Trace)

// Tracer returns an agenttrace.Tracer that runs checks against every
// completed trace, reporting to obs.
func Tracer(obs Observer, checks ...Check) agenttrace.Tracer {
	return agenttrace.ByCode(func(t *agenttrace.Trace) {
		obs.Increment()
		for _, check := range checks {
			check(obs, t)
		}
	})
}

// ForStage restricts check to traces of the named stage.
func ForStage(stage string, check Check) Check {
	return func(o Observer, t *agenttrace.Trace) {
		if t.Stage == stage {
			check(o, t)
		}
	}
}
