/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

/*
Package orchestrator runs the plan-execute-replan loop that answers one
objective.

A run moves through these phases:

	Planning -> ExecutingStep -> Replanning -> (ExecutingStep | Finalizing) -> Done

The Planner produces the first plan. Each iteration executes only the head
step, records it as completed and asks the Replanner what remains. An
explicit response and an empty plan from the Replanner both end the loop,
and the Finalizer then writes the answer.

The React variant skips planning: the objective is the single step and the
step's result is the answer.

The conversation log only grows during a run. When a run fails, Run returns
the caller's prior log unchanged together with a *PlanningError,
*StepError or *FinalizationError.
*/
package orchestrator
