/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"chainguard.dev/repochat/agents/conversation"
	"chainguard.dev/repochat/agents/plan"
	"chainguard.dev/repochat/agents/stepexecutor"
	"github.com/chainguard-dev/clog"
)

// Planner produces the first plan of a run.
type Planner interface {
	Plan(ctx context.Context, objective string, history []conversation.Message) (plan.Plan, error)
}

// StepExecutor resolves the head step of a plan.
type StepExecutor interface {
	Execute(ctx context.Context, step string, p plan.Plan, history []conversation.Message) (*stepexecutor.Result, error)
}

// Replanner decides what remains after a step.
type Replanner interface {
	Replan(ctx context.Context, objective string, previous plan.Plan, completed []plan.CompletedStep, history []conversation.Message) (plan.Act, error)
}

// Finalizer writes the answer.
type Finalizer interface {
	Finalize(ctx context.Context, objective string, history []conversation.Message, draft string) (string, error)
}

// Orchestrator runs objectives to completion. It holds no per-run state and
// may serve concurrent runs.
type Orchestrator struct {
	planner       Planner
	executor      StepExecutor
	replanner     Replanner
	finalizer     Finalizer
	variant       Variant
	maxIterations int
	hooks         []TransitionHook
}

// New returns an Orchestrator. The React variant only needs executor; the
// other components may be nil.
func New(planner Planner, executor StepExecutor, replanner Replanner, finalizer Finalizer, opts ...Option) (*Orchestrator, error) {
	o := &Orchestrator{
		planner:       planner,
		executor:      executor,
		replanner:     replanner,
		finalizer:     finalizer,
		variant:       PlanExecute,
		maxIterations: DefaultMaxIterations,
	}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	switch {
	case o.executor == nil:
		return nil, errors.New("step executor cannot be nil")
	case o.variant == React:
	case o.planner == nil:
		return nil, errors.New("planner cannot be nil")
	case o.replanner == nil:
		return nil, errors.New("replanner cannot be nil")
	case o.finalizer == nil:
		return nil, errors.New("finalizer cannot be nil")
	}
	return o, nil
}

// Variant reports the configured loop shape.
func (o *Orchestrator) Variant() Variant { return o.variant }

// Run answers objective, continuing from prior. It returns the answer and
// the updated log. On failure it returns prior unchanged.
func (o *Orchestrator) Run(ctx context.Context, objective string, prior []conversation.Message) (string, []conversation.Message, error) {
	s, err := o.RunState(ctx, objective, prior)
	if err != nil {
		return "", slices.Clone(prior), err
	}
	return *s.FinalAnswer, s.Log.Messages(), nil
}

// RunState is Run returning the final State, for callers that report on
// the plan and completed steps.
func (o *Orchestrator) RunState(ctx context.Context, objective string, prior []conversation.Message) (_ *State, err error) {
	log := clog.FromContext(ctx).With("variant", string(o.variant))

	s := &State{Objective: objective, Phase: Planning}
	defer func() {
		runsTotal.WithLabelValues(string(o.variant), outcome(err)).Inc()
		runIterations.Observe(float64(s.Iterations))
	}()

	if strings.TrimSpace(objective) == "" {
		return nil, ErrEmptyObjective
	}
	if s.Log, err = conversation.NewLog(prior...); err != nil {
		return nil, fmt.Errorf("invalid prior conversation: %w", err)
	}
	if err := s.Log.Settled(); err != nil {
		return nil, fmt.Errorf("invalid prior conversation: %w", err)
	}
	if err := s.Log.Append(conversation.User(objective)); err != nil {
		return nil, fmt.Errorf("invalid prior conversation: %w", err)
	}

	for s.Phase != Done {
		if err := ctx.Err(); err != nil {
			log.With("phase", s.Phase.String()).Warn("Run canceled")
			return nil, err
		}
		var err error
		switch s.Phase {
		case Planning:
			err = o.plan(ctx, s)
		case ExecutingStep:
			err = o.execute(ctx, s)
		case Replanning:
			err = o.replan(ctx, s)
		case Finalizing:
			err = o.finalize(ctx, s)
		default:
			err = fmt.Errorf("%w: unknown phase %s", ErrInvalidTransition, s.Phase)
		}
		if err != nil {
			log.With("phase", s.Phase.String()).With("error", err).Error("Run failed")
			return nil, err
		}
	}

	log.With("steps", s.Iterations).Info("Run complete")
	return s, nil
}

func (o *Orchestrator) transition(ctx context.Context, s *State, to Phase) error {
	if err := s.check(to); err != nil {
		return err
	}
	from := s.Phase
	s.Phase = to
	clog.FromContext(ctx).With("from", from.String()).With("to", to.String()).Debug("Transition")
	for _, hook := range o.hooks {
		hook(ctx, from, to, s)
	}
	return nil
}

func (o *Orchestrator) plan(ctx context.Context, s *State) error {
	if o.variant == React {
		s.Plan = plan.New(s.Objective)
		return o.transition(ctx, s, ExecutingStep)
	}

	p, err := o.planner.Plan(ctx, s.Objective, s.Log.Messages())
	if err != nil {
		return &PlanningError{Stage: "plan", Err: err}
	}
	if p.Empty() {
		return &PlanningError{Stage: "plan", Err: plan.ErrEmptyPlan}
	}
	s.Plan = p
	return o.transition(ctx, s, ExecutingStep)
}

func (o *Orchestrator) execute(ctx context.Context, s *State) error {
	step, ok := s.Plan.Head()
	if !ok {
		return fmt.Errorf("%w: no step to execute", ErrInvalidTransition)
	}
	clog.FromContext(ctx).With("step", step).With("iteration", s.Iterations+1).Info("Executing step")

	res, err := o.executor.Execute(ctx, step, s.Plan, s.Log.Messages())
	if err != nil {
		return &StepError{Step: step, Err: err}
	}
	if err := s.Log.Append(res.Messages...); err != nil {
		return &StepError{Step: step, Err: fmt.Errorf("recording step transcript: %w", err)}
	}
	if err := s.Log.Settled(); err != nil {
		return &StepError{Step: step, Err: err}
	}
	stepsTotal.Inc()
	s.Completed = append(s.Completed, plan.CompletedStep{Step: step, Result: res.Output})
	s.Previous = s.Plan
	s.Plan = s.Plan.Rest()
	s.Iterations++

	switch {
	case o.variant == React:
		answer := res.Output
		s.FinalAnswer = &answer
		return o.transition(ctx, s, Done)
	case o.maxIterations > 0 && s.Iterations >= o.maxIterations:
		clog.FromContext(ctx).With("max_iterations", o.maxIterations).
			Warn("Reached the iteration limit, finalizing with the steps completed so far")
		return o.transition(ctx, s, Finalizing)
	}
	return o.transition(ctx, s, Replanning)
}

func (o *Orchestrator) replan(ctx context.Context, s *State) error {
	act, err := o.replanner.Replan(ctx, s.Objective, s.Previous, slices.Clone(s.Completed), s.Log.Messages())
	if err != nil {
		return &PlanningError{Stage: "replan", Err: err}
	}

	// Completed steps never re-enter the plan, whatever the replanner returned.
	next := act.Remaining().Without(s.Completed)
	if act.Done() || next.Empty() {
		if act.Response != nil {
			s.Draft = act.Response.Response
		}
		s.Plan = plan.Plan{}
		return o.transition(ctx, s, Finalizing)
	}
	s.Plan = next
	return o.transition(ctx, s, ExecutingStep)
}

func (o *Orchestrator) finalize(ctx context.Context, s *State) error {
	answer, err := o.finalizer.Finalize(ctx, s.Objective, s.Log.Messages(), s.Draft)
	if err != nil {
		return &FinalizationError{Err: err}
	}
	if err := s.Log.Append(conversation.Assistant(answer)); err != nil {
		return &FinalizationError{Err: err}
	}
	s.FinalAnswer = &answer
	return o.transition(ctx, s, Done)
}
