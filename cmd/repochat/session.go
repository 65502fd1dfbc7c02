/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"chainguard.dev/repochat/agents/conversation"
	"chainguard.dev/repochat/agents/orchestrator"
	"github.com/chainguard-dev/clog"
)

const prompt = "\nrepochat> "

type runner interface {
	RunState(ctx context.Context, objective string, prior []conversation.Message) (*orchestrator.State, error)
}

// session is one interactive conversation.
type session struct {
	runner  runner
	in      io.Reader
	out     io.Writer
	errOut  io.Writer
	verbose bool

	history []conversation.Message
}

func newSession(r runner, in io.Reader, out, errOut io.Writer, verbose bool) *session {
	return &session{runner: r, in: in, out: out, errOut: errOut, verbose: verbose}
}

// Loop answers questions until input ends, the user types exit or ctx is
// done. A failed question is reported and leaves the history unchanged.
func (s *session) Loop(ctx context.Context) error {
	fmt.Fprintln(s.out, `Ask about a GitHub repository (org/name). Type "exit" to quit.`)
	sc := bufio.NewScanner(s.in)
	for {
		fmt.Fprint(s.out, prompt)
		if !sc.Scan() {
			fmt.Fprintln(s.out)
			return sc.Err()
		}
		q := strings.TrimSpace(sc.Text())
		switch strings.ToLower(q) {
		case "":
			continue
		case "exit", "quit":
			return nil
		}

		if err := s.ask(ctx, q); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			clog.FromContext(ctx).With("error", err).Debug("Question failed")
			fmt.Fprintf(s.errOut, "error: %v\n", err)
		}
	}
}

func (s *session) ask(ctx context.Context, q string) error {
	st, err := s.runner.RunState(ctx, q, s.history)
	if err != nil {
		return err
	}
	s.history = st.Log.Messages()

	if s.verbose {
		if err := renderSteps(s.out, st); err != nil {
			return fmt.Errorf("rendering steps: %w", err)
		}
	}
	fmt.Fprintln(s.out, *st.FinalAnswer)
	return nil
}
