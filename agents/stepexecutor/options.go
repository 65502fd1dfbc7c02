/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package stepexecutor

import (
	"context"
	"errors"
	"fmt"

	"chainguard.dev/repochat/agents/conversation"
)

// DefaultMaxToolRounds bounds the model turns spent on one step.
const DefaultMaxToolRounds = 20

// Summarizer condenses earlier conversation for the sub-agent's system prompt.
type Summarizer interface {
	Summarize(ctx context.Context, msgs []conversation.Message) (string, error)
}

// Option configures an Executor.
type Option func(*Executor) error

// WithMaxToolRounds caps the model turns within one step. Zero removes the cap.
func WithMaxToolRounds(n int) Option {
	return func(e *Executor) error {
		if n < 0 {
			return fmt.Errorf("max tool rounds cannot be negative, got %d", n)
		}
		e.maxToolRounds = n
		return nil
	}
}

// WithSummarizer condenses prior conversation instead of passing it verbatim.
func WithSummarizer(s Summarizer) Option {
	return func(e *Executor) error {
		if s == nil {
			return errors.New("summarizer cannot be nil")
		}
		e.summarizer = s
		return nil
	}
}
