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
	"chainguard.dev/repochat/agents/promptbuilder"
	"chainguard.dev/repochat/agents/result"
	"chainguard.dev/repochat/agents/toolcall"
	"chainguard.dev/repochat/agents/toolcall/params"
	"github.com/chainguard-dev/clog"
)

// Replanner revises the remaining plan after each executed step, or decides
// that the objective can be answered.
type Replanner struct {
	model  model.Model
	config config
}

// NewReplanner returns a Replanner backed by m.
func NewReplanner(m model.Model, opts ...Option) (*Replanner, error) {
	if m == nil {
		return nil, errors.New("model cannot be nil")
	}
	c, err := newConfig(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to apply option: %w", err)
	}
	return &Replanner{model: m, config: c}, nil
}

// Replan returns the next act. Steps already in completed never reappear in
// a returned plan; a plan left empty by that filter is a terminal act.
func (r *Replanner) Replan(ctx context.Context, objective string, previous plan.Plan, completed []plan.CompletedStep, history []conversation.Message) (_ plan.Act, err error) {
	ctx = metrics.WithStage(ctx, "replan")

	system, err := bindTools(replannerSystem, r.config.tools)
	if err != nil {
		return plan.Act{}, err
	}
	prompt, err := buildReplanPrompt(objective, previous, completed, history)
	if err != nil {
		return plan.Act{}, err
	}

	trace := agenttrace.StartTrace(ctx, "replan", prompt)
	var act plan.Act
	defer func() { trace.Complete(describe(act), err) }()

	resp, err := r.model.Generate(trace.Context(), &model.Request{
		System:     system,
		Messages:   []conversation.Message{conversation.User(prompt)},
		Tools:      []toolcall.Definition{planDefinition, respondDefinition},
		ToolChoice: model.ToolChoiceRequired,
	})
	if err != nil {
		return plan.Act{}, fmt.Errorf("replanner model call: %w", err)
	}
	trace.RecordTokenUsage(r.model.Name(), resp.Usage.InputTokens, resp.Usage.OutputTokens)

	act, err = parseAct(resp)
	if err != nil {
		return plan.Act{}, err
	}
	if act.Plan != nil {
		filtered := act.Plan.Without(completed)
		act.Plan = &filtered
	}
	clog.FromContext(ctx).With("done", act.Done()).
		With("remaining", len(act.Remaining().Steps)).
		Info("Replanned")
	return act, nil
}

func buildReplanPrompt(objective string, previous plan.Plan, completed []plan.CompletedStep, history []conversation.Message) (string, error) {
	p, err := replannerUser.BindXML("objective", objectiveXML{Text: objective})
	if err != nil {
		return "", err
	}
	if p, err = p.BindXML("plan", planXML{Steps: previous.Steps}); err != nil {
		return "", err
	}
	if p, err = p.BindXML("completed", completedXML{Steps: completed}); err != nil {
		return "", err
	}
	if p, err = p.BindXML("history", conversation.NewTranscript(history)); err != nil {
		return "", err
	}
	return p.Build()
}

// actJSON is the text form of an act: a response, or steps.
type actJSON struct {
	Response string   `json:"response"`
	Steps    []string `json:"steps"`
}

func parseAct(resp *model.Response) (plan.Act, error) {
	for _, call := range resp.ToolCalls {
		switch call.Name {
		case respondTool:
			text, err := params.Extract[string](call.Args, "response")
			if err != nil {
				return plan.Act{}, fmt.Errorf("invalid respond tool call: %w", err)
			}
			return plan.Respond(text), nil
		case planTool:
			p, err := planFromArgs(call.Args)
			if err != nil {
				return plan.Act{}, err
			}
			return plan.Continue(p), nil
		}
	}
	if len(resp.ToolCalls) > 0 {
		return plan.Act{}, fmt.Errorf("replanner called unexpected tool %q", resp.ToolCalls[0].Name)
	}

	a, err := result.Extract[actJSON](resp.Text)
	if err != nil {
		return plan.Act{}, fmt.Errorf("unparsable replanner output: %w", err)
	}
	if a.Response != "" {
		return plan.Respond(a.Response), nil
	}
	return plan.Continue(plan.New(a.Steps...)), nil
}

func describe(a plan.Act) string {
	switch {
	case a.Response != nil:
		return "respond: " + a.Response.Response
	case a.Done():
		return "done"
	default:
		return a.Plan.Numbered()
	}
}

func bindTools(p *promptbuilder.Prompt, defs []toolcall.Definition) (string, error) {
	p, err := p.BindYAML("tools", summarizeTools(defs))
	if err != nil {
		return "", err
	}
	return p.Build()
}
