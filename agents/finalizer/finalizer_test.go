/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package finalizer_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"chainguard.dev/repochat/agents/conversation"
	"chainguard.dev/repochat/agents/finalizer"
	"chainguard.dev/repochat/agents/model"
	"chainguard.dev/repochat/agents/model/modeltest"
)

func TestFinalize(t *testing.T) {
	history := []conversation.Message{
		conversation.User("List the files in org/repo under .py"),
		conversation.Assistant("main.py\nutil.py"),
	}

	tests := []struct {
		name       string
		turn       modeltest.Turn
		draft      string
		want       string
		wantErr    error
		wantPrompt []string
	}{{
		name:       "answer",
		turn:       modeltest.Text("main.py\nutil.py\n"),
		want:       "main.py\nutil.py",
		wantPrompt: []string{"<objective>List the files in org/repo under .py</objective>", "Return only the answer"},
	}, {
		name:       "with draft",
		turn:       modeltest.Text("Two files."),
		draft:      "There are two files.",
		want:       "Two files.",
		wantPrompt: []string{"<draft_answer>There are two files.</draft_answer>"},
	}, {
		name:    "empty answer",
		turn:    modeltest.Text("   "),
		wantErr: finalizer.ErrEmptyAnswer,
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := modeltest.New("final", tt.turn)
			f, err := finalizer.New(m)
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			got, err := f.Finalize(context.Background(), "List the files in org/repo under .py", history, tt.draft)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Finalize() error = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Finalize() = %q, want %q", got, tt.want)
			}
			req := m.Requests()[0]
			if req.ToolChoice != model.ToolChoiceNone || len(req.Tools) != 0 {
				t.Errorf("finalizer offered tools: %+v", req.Tools)
			}
			for _, want := range tt.wantPrompt {
				if !strings.Contains(req.Messages[0].Content, want) {
					t.Errorf("prompt missing %q:\n%s", want, req.Messages[0].Content)
				}
			}
		})
	}
}
