/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package finalizer turns a completed run's history into the answer shown to
// the user. It never offers tools to the model.
package finalizer

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"strings"

	"chainguard.dev/repochat/agents/agenttrace"
	"chainguard.dev/repochat/agents/conversation"
	"chainguard.dev/repochat/agents/metrics"
	"chainguard.dev/repochat/agents/model"
	"chainguard.dev/repochat/agents/promptbuilder"
)

// ErrEmptyAnswer is returned when the model produces no answer text.
var ErrEmptyAnswer = errors.New("finalizer produced an empty answer")

var finalizerPrompt = promptbuilder.MustNew(`Past conversation history:
{{history}}

Now, for the task, based on the conversation history, finalize the output to return to the user.

Your objective is this:
{{objective}}

{{draft}}

Return only the answer, do not add anything that is not necessary.`)

type objectiveXML struct {
	XMLName xml.Name `xml:"objective"`
	Text    string   `xml:",chardata"`
}

// draftXML carries the replanner's proposed response, when it gave one.
type draftXML struct {
	XMLName xml.Name `xml:"draft_answer"`
	Text    string   `xml:",chardata"`
}

// Finalizer is a model-backed answer writer.
type Finalizer struct {
	model model.Model
}

// New returns a Finalizer backed by m.
func New(m model.Model) (*Finalizer, error) {
	if m == nil {
		return nil, errors.New("model cannot be nil")
	}
	return &Finalizer{model: m}, nil
}

// Finalize returns the answer to objective given the run's history and an
// optional draft.
func (f *Finalizer) Finalize(ctx context.Context, objective string, history []conversation.Message, draft string) (answer string, err error) {
	ctx = metrics.WithStage(ctx, "finalize")

	p, err := finalizerPrompt.BindXML("history", conversation.NewTranscript(history))
	if err != nil {
		return "", err
	}
	if p, err = p.BindXML("objective", objectiveXML{Text: objective}); err != nil {
		return "", err
	}
	if draft == "" {
		p, err = p.BindLiteral("draft", "")
	} else {
		p, err = p.BindXML("draft", draftXML{Text: draft})
	}
	if err != nil {
		return "", err
	}
	prompt, err := p.Build()
	if err != nil {
		return "", err
	}

	trace := agenttrace.StartTrace(ctx, "finalize", prompt)
	defer func() { trace.Complete(answer, err) }()

	resp, err := f.model.Generate(trace.Context(), &model.Request{
		Messages:   []conversation.Message{conversation.User(prompt)},
		ToolChoice: model.ToolChoiceNone,
	})
	if err != nil {
		return "", fmt.Errorf("finalizer model call: %w", err)
	}
	trace.RecordTokenUsage(f.model.Name(), resp.Usage.InputTokens, resp.Usage.OutputTokens)

	answer = strings.TrimSpace(resp.Text)
	if answer == "" {
		return "", ErrEmptyAnswer
	}
	return answer, nil
}
