/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"chainguard.dev/repochat/agents/conversation"
	"chainguard.dev/repochat/agents/orchestrator"
	"chainguard.dev/repochat/agents/plan"
	"github.com/stretchr/testify/require"
)

// fakeRunner answers "answer N" to the Nth question and fails questions
// containing "fail".
type fakeRunner struct {
	priors [][]conversation.Message
}

func (f *fakeRunner) RunState(_ context.Context, objective string, prior []conversation.Message) (*orchestrator.State, error) {
	f.priors = append(f.priors, prior)
	if strings.Contains(objective, "fail") {
		return nil, &orchestrator.PlanningError{Stage: "plan", Err: errors.New("model unavailable")}
	}
	log, err := conversation.NewLog(prior...)
	if err != nil {
		return nil, err
	}
	answer := "answer " + strings.Repeat("I", len(f.priors))
	if err := log.Append(conversation.User(objective), conversation.Assistant(answer)); err != nil {
		return nil, err
	}
	return &orchestrator.State{
		Objective:   objective,
		Log:         log,
		Completed:   []plan.CompletedStep{{Step: "call get_repo_structure for org/repo", Result: "src/\n    main.py"}},
		FinalAnswer: &answer,
		Phase:       orchestrator.Done,
	}, nil
}

func TestSessionLoop(t *testing.T) {
	r := &fakeRunner{}
	in := strings.NewReader("What is org/repo?\n\nplease fail\nAnd its tests?\nexit\nignored\n")
	var out, errOut bytes.Buffer

	require.NoError(t, newSession(r, in, &out, &errOut, false).Loop(context.Background()))

	require.Len(t, r.priors, 3)
	require.Empty(t, r.priors[0])
	require.Len(t, r.priors[1], 2, "the second question sees the first exchange")
	require.Len(t, r.priors[2], 2, "a failed question leaves the history unchanged")

	require.Contains(t, out.String(), "answer I\n")
	require.Contains(t, out.String(), "answer III\n")
	require.Contains(t, errOut.String(), "error: plan failed: model unavailable")
}

func TestSessionVerbose(t *testing.T) {
	var out bytes.Buffer
	s := newSession(&fakeRunner{}, strings.NewReader("q\n"), &out, &bytes.Buffer{}, true)

	require.NoError(t, s.Loop(context.Background()))
	require.Contains(t, out.String(), "1 step(s), final phase DONE")
	require.Contains(t, out.String(), "call get_repo_structure for org/repo")
	require.Contains(t, out.String(), "src/ main.py")
}

func TestSessionCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	calls := 0
	canceled := runnerFunc(func(ctx context.Context, _ string, _ []conversation.Message) (*orchestrator.State, error) {
		calls++
		return nil, ctx.Err()
	})
	err := newSession(canceled, strings.NewReader("q\nq\n"), &bytes.Buffer{}, &bytes.Buffer{}, false).Loop(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 1, calls, "the loop stops after the canceled question")
}

type runnerFunc func(ctx context.Context, objective string, prior []conversation.Message) (*orchestrator.State, error)

func (f runnerFunc) RunState(ctx context.Context, objective string, prior []conversation.Message) (*orchestrator.State, error) {
	return f(ctx, objective, prior)
}

func TestPreview(t *testing.T) {
	require.Equal(t, "a b c", preview("a\n  b\tc", 10))
	require.Equal(t, "abcdefg...", preview(strings.Repeat("abcdefghij", 3), 10))
}
