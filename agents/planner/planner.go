/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package planner

import (
	"context"
	"errors"
	"fmt"

	"chainguard.dev/repochat/agents/agenttrace"
	"chainguard.dev/repochat/agents/conversation"
	"chainguard.dev/repochat/agents/metrics"
	"chainguard.dev/repochat/agents/model"
	"chainguard.dev/repochat/agents/plan"
	"chainguard.dev/repochat/agents/result"
	"chainguard.dev/repochat/agents/schema"
	"chainguard.dev/repochat/agents/toolcall"
	"chainguard.dev/repochat/agents/toolcall/params"
	"github.com/chainguard-dev/clog"
)

const (
	planTool    = "plan"
	respondTool = "respond"
)

var (
	planDefinition    = schema.Definition[plan.Plan](planTool, "Submit the ordered steps that still need to be done.")
	respondDefinition = schema.Definition[plan.Response](respondTool, "Respond to the user when no more steps are needed.")
)

// Planner produces the initial plan for an objective.
type Planner struct {
	model  model.Model
	config config
}

// NewPlanner returns a Planner backed by m.
func NewPlanner(m model.Model, opts ...Option) (*Planner, error) {
	if m == nil {
		return nil, errors.New("model cannot be nil")
	}
	c, err := newConfig(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to apply option: %w", err)
	}
	return &Planner{model: m, config: c}, nil
}

// Plan returns a non-empty plan for objective, or an error.
func (p *Planner) Plan(ctx context.Context, objective string, history []conversation.Message) (_ plan.Plan, err error) {
	ctx = metrics.WithStage(ctx, "plan")

	system, err := bindTools(plannerSystem, p.config.tools)
	if err != nil {
		return plan.Plan{}, err
	}
	user, err := plannerUser.BindXML("objective", objectiveXML{Text: objective})
	if err != nil {
		return plan.Plan{}, err
	}
	if user, err = user.BindXML("history", conversation.NewTranscript(history)); err != nil {
		return plan.Plan{}, err
	}
	prompt, err := user.Build()
	if err != nil {
		return plan.Plan{}, err
	}

	trace := agenttrace.StartTrace(ctx, "plan", prompt)
	var out plan.Plan
	defer func() { trace.Complete(out.Numbered(), err) }()

	resp, err := p.model.Generate(trace.Context(), &model.Request{
		System:     system,
		Messages:   []conversation.Message{conversation.User(prompt)},
		Tools:      []toolcall.Definition{planDefinition},
		ToolChoice: model.ToolChoiceRequired,
	})
	if err != nil {
		return plan.Plan{}, fmt.Errorf("planner model call: %w", err)
	}
	trace.RecordTokenUsage(p.model.Name(), resp.Usage.InputTokens, resp.Usage.OutputTokens)

	out, err = parsePlan(resp)
	if err != nil {
		return plan.Plan{}, err
	}
	if err := out.Validate(); err != nil {
		return plan.Plan{}, fmt.Errorf("planner returned no steps: %w", err)
	}
	clog.FromContext(ctx).With("steps", len(out.Steps)).Info("Planned objective")
	return out, nil
}

func parsePlan(resp *model.Response) (plan.Plan, error) {
	for _, call := range resp.ToolCalls {
		if call.Name == planTool {
			return planFromArgs(call.Args)
		}
	}
	if len(resp.ToolCalls) > 0 {
		return plan.Plan{}, fmt.Errorf("planner called unexpected tool %q", resp.ToolCalls[0].Name)
	}
	p, err := result.Extract[plan.Plan](resp.Text)
	if err != nil {
		return plan.Plan{}, fmt.Errorf("unparsable planner output: %w", err)
	}
	return plan.New(p.Steps...), nil
}

func planFromArgs(args map[string]any) (plan.Plan, error) {
	steps, err := params.Extract[[]string](args, "steps")
	if err != nil {
		return plan.Plan{}, fmt.Errorf("invalid plan tool call: %w", err)
	}
	return plan.New(steps...), nil
}
