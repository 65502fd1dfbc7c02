/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package orchestrator

import (
	"context"
	"errors"
	"fmt"
)

// Variant selects the loop shape.
type Variant string

const (
	// PlanExecute plans, executes one step at a time and replans.
	PlanExecute Variant = "plan-execute"
	// React runs the objective as a single tool-calling step.
	React Variant = "react"
)

// ParseVariant parses a configured variant name.
func ParseVariant(s string) (Variant, error) {
	switch v := Variant(s); v {
	case PlanExecute, React:
		return v, nil
	}
	return "", fmt.Errorf("unknown agent variant %q (want %q or %q)", s, PlanExecute, React)
}

// DefaultMaxIterations bounds the executed steps of a run.
const DefaultMaxIterations = 10

// TransitionHook observes every phase change. s must not be modified.
type TransitionHook func(ctx context.Context, from, to Phase, s *State)

// Option configures an Orchestrator.
type Option func(*Orchestrator) error

// WithVariant selects the loop shape. The default is PlanExecute.
func WithVariant(v Variant) Option {
	return func(o *Orchestrator) error {
		if _, err := ParseVariant(string(v)); err != nil {
			return err
		}
		o.variant = v
		return nil
	}
}

// WithMaxIterations caps executed steps; when reached the run finalizes
// with what it has. Zero removes the cap.
func WithMaxIterations(n int) Option {
	return func(o *Orchestrator) error {
		if n < 0 {
			return fmt.Errorf("max iterations cannot be negative, got %d", n)
		}
		o.maxIterations = n
		return nil
	}
}

// WithTransitionHook registers fn to observe phase changes.
func WithTransitionHook(fn TransitionHook) Option {
	return func(o *Orchestrator) error {
		if fn == nil {
			return errors.New("transition hook cannot be nil")
		}
		o.hooks = append(o.hooks, fn)
		return nil
	}
}
