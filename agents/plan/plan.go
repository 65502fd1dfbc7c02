/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package plan defines the ordered step lists produced by the planner and
// replanner, the record of completed steps, and the replanner's decision.
package plan

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyPlan is returned when a plan that must contain work has no steps.
var ErrEmptyPlan = errors.New("plan has no steps")

// Plan is an ordered list of self-contained step descriptions.
// Insertion order is execution order.
type Plan struct {
	Steps []string `json:"steps" yaml:"steps" jsonschema:"required,description=Ordered steps to follow. Each step must be self-contained."`
}

// New returns a Plan from the non-blank entries of steps, trimmed.
func New(steps ...string) Plan {
	out := make([]string, 0, len(steps))
	for _, s := range steps {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return Plan{Steps: out}
}

// Empty reports whether no steps remain.
func (p Plan) Empty() bool {
	return len(p.Steps) == 0
}

// Head returns the first step.
func (p Plan) Head() (string, bool) {
	if p.Empty() {
		return "", false
	}
	return p.Steps[0], true
}

// Rest returns the plan without its first step.
func (p Plan) Rest() Plan {
	if p.Empty() {
		return p
	}
	return Plan{Steps: append([]string(nil), p.Steps[1:]...)}
}

// Validate returns ErrEmptyPlan for a plan with no steps.
func (p Plan) Validate() error {
	if p.Empty() {
		return ErrEmptyPlan
	}
	return nil
}

// Without returns the plan with every step equal to a completed step removed.
// Comparison ignores surrounding whitespace.
func (p Plan) Without(completed []CompletedStep) Plan {
	if len(completed) == 0 {
		return New(p.Steps...)
	}
	done := make(map[string]struct{}, len(completed))
	for _, c := range completed {
		done[strings.TrimSpace(c.Step)] = struct{}{}
	}
	var keep []string
	for _, s := range p.Steps {
		if _, ok := done[strings.TrimSpace(s)]; !ok {
			keep = append(keep, s)
		}
	}
	return New(keep...)
}

// Numbered renders the plan as a 1-based numbered list.
func (p Plan) Numbered() string {
	var sb strings.Builder
	for i, s := range p.Steps {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "%d. %s", i+1, s)
	}
	return sb.String()
}

// CompletedStep pairs an executed step with its result.
type CompletedStep struct {
	Step   string `json:"step" xml:"step"`
	Result string `json:"result" xml:"result"`
}
