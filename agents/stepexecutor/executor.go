/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package stepexecutor

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"

	"chainguard.dev/repochat/agents/agenttrace"
	"chainguard.dev/repochat/agents/conversation"
	"chainguard.dev/repochat/agents/metrics"
	"chainguard.dev/repochat/agents/model"
	"chainguard.dev/repochat/agents/plan"
	"chainguard.dev/repochat/agents/promptbuilder"
	"chainguard.dev/repochat/agents/toolcall"
	"github.com/chainguard-dev/clog"
)

const basePrompt = `You are a helpful, honest and harmless assistant. Do your best to complete the task you are given. Depend primarily on the tools available to you.`

var (
	summaryPrompt = promptbuilder.MustNew(basePrompt + `

Summarized past conversation history:
{{history}}`)

	historyPrompt = promptbuilder.MustNew(basePrompt + `

Past conversation history:
{{history}}`)
)

type summary struct {
	XMLName xml.Name `xml:"summary"`
	Text    string   `xml:",chardata"`
}

// Result is the outcome of one step.
type Result struct {
	// Output is the sub-agent's final text for the step.
	Output string
	// Messages is the step's transcript: assistant tool-call turns, their
	// tool results, and the final assistant message, in order.
	Messages []conversation.Message
}

// Executor runs plan steps against a model and a tool set.
type Executor struct {
	model         model.Model
	tools         toolcall.Invoker
	maxToolRounds int
	summarizer    Summarizer
}

// New returns an Executor.
func New(m model.Model, tools toolcall.Invoker, opts ...Option) (*Executor, error) {
	if m == nil {
		return nil, errors.New("model cannot be nil")
	}
	if tools == nil {
		return nil, errors.New("tools cannot be nil")
	}
	e := &Executor{
		model:         m,
		tools:         tools,
		maxToolRounds: DefaultMaxToolRounds,
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}
	return e, nil
}

// Task frames step as the sub-agent's task, numbered against p.
func Task(step string, p plan.Plan) string {
	return fmt.Sprintf("For the following plan:\n%s\n\nYou are tasked with executing step 1, %s.", p.Numbered(), step)
}

// Execute resolves step. The returned transcript is suitable for appending
// to the orchestrator's log.
func (e *Executor) Execute(ctx context.Context, step string, p plan.Plan, history []conversation.Message) (_ *Result, err error) {
	ctx = metrics.WithStage(ctx, "execute")
	log := clog.FromContext(ctx).With("step", step)

	system, err := e.systemPrompt(ctx, history)
	if err != nil {
		return nil, err
	}

	task := Task(step, p)
	trace := agenttrace.StartTrace(ctx, "execute", task)
	var output string
	defer func() { trace.Complete(output, err) }()
	ctx = trace.Context()

	msgs := []conversation.Message{conversation.User(task)}
	var transcript []conversation.Message
	defs := e.tools.Definitions()

	lastText := ""
	for round := 0; e.maxToolRounds == 0 || round < e.maxToolRounds; round++ {
		resp, err := e.model.Generate(ctx, &model.Request{
			System:     system,
			Messages:   msgs,
			Tools:      defs,
			ToolChoice: model.ToolChoiceAuto,
		})
		if err != nil {
			return nil, fmt.Errorf("step sub-agent turn %d: %w", round+1, err)
		}
		trace.RecordTokenUsage(e.model.Name(), resp.Usage.InputTokens, resp.Usage.OutputTokens)

		if len(resp.ToolCalls) == 0 {
			output = resp.Text
			transcript = append(transcript, conversation.Assistant(output))
			log.With("rounds", round+1).Info("Step complete")
			return &Result{Output: output, Messages: transcript}, nil
		}
		if resp.Text != "" {
			lastText = resp.Text
		}

		turn := conversation.AssistantToolCalls(resp.Text, resp.ToolCalls...)
		msgs = append(msgs, turn)
		transcript = append(transcript, turn)
		for _, call := range turn.ToolCalls {
			result := e.invoke(ctx, call, trace)
			msgs = append(msgs, result)
			transcript = append(transcript, result)
		}
	}

	log.With("max_tool_rounds", e.maxToolRounds).Warn("Step stopped at the tool round limit")
	output = lastText
	if output == "" {
		output = fmt.Sprintf("Stopped after %d tool rounds without reaching a final answer for this step.", e.maxToolRounds)
	}
	transcript = append(transcript, conversation.Assistant(output))
	return &Result{Output: output, Messages: transcript}, nil
}

// invoke runs one tool call. Failures become the result text so the
// sub-agent can react to them.
func (e *Executor) invoke(ctx context.Context, call conversation.ToolCall, trace *agenttrace.Trace) conversation.Message {
	text, err := e.tools.Invoke(ctx, call, trace)
	if err != nil {
		var notFound *toolcall.ToolNotFoundError
		if errors.As(err, &notFound) {
			clog.FromContext(ctx).With("tool", call.Name).Warn("Sub-agent requested an unknown tool")
		}
		text = toolcall.ErrorText(err)
	}
	return conversation.ToolResult(call.ID, text)
}

func (e *Executor) systemPrompt(ctx context.Context, history []conversation.Message) (string, error) {
	if len(history) == 0 {
		return basePrompt, nil
	}

	var (
		p   *promptbuilder.Prompt
		err error
	)
	if e.summarizer != nil {
		text, serr := e.summarizer.Summarize(ctx, history)
		if serr != nil {
			return "", fmt.Errorf("summarizing history: %w", serr)
		}
		p, err = summaryPrompt.BindXML("history", summary{Text: text})
	} else {
		p, err = historyPrompt.BindXML("history", conversation.NewTranscript(history))
	}
	if err != nil {
		return "", err
	}
	return p.Build()
}
