/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package orchestrator

import (
	"fmt"

	"chainguard.dev/repochat/agents/conversation"
	"chainguard.dev/repochat/agents/plan"
)

// Phase is a state of the run.
type Phase int

const (
	Planning Phase = iota
	ExecutingStep
	Replanning
	Finalizing
	Done
)

func (p Phase) String() string {
	switch p {
	case Planning:
		return "PLANNING"
	case ExecutingStep:
		return "EXECUTING_STEP"
	case Replanning:
		return "REPLANNING"
	case Finalizing:
		return "FINALIZING"
	case Done:
		return "DONE"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// transitions lists the edges of the state machine.
var transitions = map[Phase][]Phase{
	Planning:      {ExecutingStep},
	ExecutingStep: {Replanning, Finalizing, Done},
	Replanning:    {ExecutingStep, Finalizing},
	Finalizing:    {Done},
}

// State is the data threaded through one run.
type State struct {
	Objective string
	Log       *conversation.Log
	Plan      plan.Plan
	// Previous is the plan the latest step was executed from, shown to the
	// Replanner in full.
	Previous  plan.Plan
	Completed []plan.CompletedStep
	// Draft is the Replanner's proposed response, passed to the Finalizer.
	Draft       string
	FinalAnswer *string
	Phase       Phase
	// Iterations counts executed steps.
	Iterations int
}

// check validates that s holds what phase to requires.
func (s *State) check(to Phase) error {
	allowed := false
	for _, p := range transitions[s.Phase] {
		if p == to {
			allowed = true
			break
		}
	}
	if !allowed {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.Phase, to)
	}

	switch to {
	case ExecutingStep:
		if s.Plan.Empty() {
			return fmt.Errorf("%w: %s requires a non-empty plan", ErrInvalidTransition, to)
		}
	case Replanning:
		if len(s.Completed) == 0 {
			return fmt.Errorf("%w: %s requires a completed step", ErrInvalidTransition, to)
		}
		if s.Previous.Empty() {
			return fmt.Errorf("%w: %s requires the executed plan", ErrInvalidTransition, to)
		}
	case Done:
		if s.FinalAnswer == nil {
			return fmt.Errorf("%w: %s requires a final answer", ErrInvalidTransition, to)
		}
	}
	if s.Log == nil {
		return fmt.Errorf("%w: state has no log", ErrInvalidTransition)
	}
	return nil
}
