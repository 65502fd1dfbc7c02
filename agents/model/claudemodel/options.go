/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package claudemodel

import (
	"fmt"
	"strings"

	"chainguard.dev/repochat/agents/retry"
)

// Option configures a Claude model.
type Option func(*claudeModel) error

// WithModel overrides the model name.
func WithModel(name string) Option {
	return func(m *claudeModel) error {
		if !strings.HasPrefix(name, "claude-") {
			return fmt.Errorf("model %q does not appear to be a Claude model (expected claude-* format)", name)
		}
		m.name = name
		return nil
	}
}

// WithMaxTokens sets the maximum tokens for responses.
func WithMaxTokens(tokens int64) Option {
	return func(m *claudeModel) error {
		if tokens <= 0 {
			return fmt.Errorf("max tokens must be positive, got %d", tokens)
		}
		m.maxTokens = tokens
		return nil
	}
}

// WithTemperature sets the sampling temperature, between 0.0 and 1.0.
func WithTemperature(temp float64) Option {
	return func(m *claudeModel) error {
		if temp < 0.0 || temp > 1.0 {
			return fmt.Errorf("temperature must be between 0.0 and 1.0, got %f", temp)
		}
		m.temperature = temp
		return nil
	}
}

// WithRetryConfig overrides the backoff schedule for transient errors.
func WithRetryConfig(cfg retry.Config) Option {
	return func(m *claudeModel) error {
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid retry config: %w", err)
		}
		m.retryConfig = cfg
		return nil
	}
}
