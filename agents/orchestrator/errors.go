/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package orchestrator

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyObjective is returned for a blank objective.
	ErrEmptyObjective = errors.New("objective is empty")
	// ErrInvalidTransition reports a state machine edge that does not exist
	// or whose preconditions do not hold.
	ErrInvalidTransition = errors.New("invalid transition")
)

// PlanningError reports a failed Planner or Replanner call.
type PlanningError struct {
	// Stage is "plan" or "replan".
	Stage string
	Err   error
}

func (e *PlanningError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Stage, e.Err)
}

func (e *PlanningError) Unwrap() error { return e.Err }

// StepError reports a step whose sub-agent model call failed. Tool failures
// inside a step do not produce a StepError.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("executing step %q: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// FinalizationError reports a failed Finalizer call.
type FinalizationError struct {
	Err error
}

func (e *FinalizationError) Error() string {
	return fmt.Sprintf("finalize failed: %v", e.Err)
}

func (e *FinalizationError) Unwrap() error { return e.Err }
