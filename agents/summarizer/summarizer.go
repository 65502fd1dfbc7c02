/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package summarizer condenses a conversation history into a short text the
// step executor can carry in its system prompt.
package summarizer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"chainguard.dev/repochat/agents/agenttrace"
	"chainguard.dev/repochat/agents/conversation"
	"chainguard.dev/repochat/agents/metrics"
	"chainguard.dev/repochat/agents/model"
	"chainguard.dev/repochat/agents/promptbuilder"
)

var summaryPrompt = promptbuilder.MustNew(`This is the past conversation, summarize it to retain key information and details.
{{messages}}`)

// Summarizer is a model-backed conversation summarizer.
type Summarizer struct {
	model model.Model
}

// New returns a Summarizer backed by m.
func New(m model.Model) (*Summarizer, error) {
	if m == nil {
		return nil, errors.New("model cannot be nil")
	}
	return &Summarizer{model: m}, nil
}

// Summarize returns a summary of msgs. An empty history summarizes to the
// empty string without calling the model.
func (s *Summarizer) Summarize(ctx context.Context, msgs []conversation.Message) (summary string, err error) {
	if len(msgs) == 0 {
		return "", nil
	}
	ctx = metrics.WithStage(ctx, "summarize")

	p, err := summaryPrompt.BindXML("messages", conversation.NewTranscript(msgs))
	if err != nil {
		return "", err
	}
	prompt, err := p.Build()
	if err != nil {
		return "", err
	}

	trace := agenttrace.StartTrace(ctx, "summarize", prompt)
	defer func() { trace.Complete(summary, err) }()

	resp, err := s.model.Generate(trace.Context(), &model.Request{
		Messages:   []conversation.Message{conversation.User(prompt)},
		ToolChoice: model.ToolChoiceNone,
	})
	if err != nil {
		return "", fmt.Errorf("summarizer model call: %w", err)
	}
	trace.RecordTokenUsage(s.model.Name(), resp.Usage.InputTokens, resp.Usage.OutputTokens)
	return strings.TrimSpace(resp.Text), nil
}
