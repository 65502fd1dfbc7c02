/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package openaimodel

import (
	"fmt"

	"chainguard.dev/repochat/agents/model"
	"chainguard.dev/repochat/agents/retry"
)

// Option configures an OpenAI model.
type Option func(*openaiModel) error

// WithModel overrides the model name.
func WithModel(name string) Option {
	return func(m *openaiModel) error {
		if p, err := model.ProviderFor(name); err != nil || p != model.ProviderOpenAI {
			return fmt.Errorf("model %q does not appear to be an OpenAI model", name)
		}
		m.name = name
		return nil
	}
}

// WithTemperature sets the sampling temperature. Reasoning models reject
// the parameter, so it is only sent when set.
func WithTemperature(temp float64) Option {
	return func(m *openaiModel) error {
		if temp < 0.0 || temp > 2.0 {
			return fmt.Errorf("temperature must be between 0.0 and 2.0, got %f", temp)
		}
		m.temperature = &temp
		return nil
	}
}

// WithMaxTokens caps completion tokens.
func WithMaxTokens(tokens int64) Option {
	return func(m *openaiModel) error {
		if tokens <= 0 {
			return fmt.Errorf("max tokens must be positive, got %d", tokens)
		}
		m.maxTokens = tokens
		return nil
	}
}

// WithRetryConfig overrides the backoff schedule for transient errors.
func WithRetryConfig(cfg retry.Config) Option {
	return func(m *openaiModel) error {
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid retry config: %w", err)
		}
		m.retryConfig = cfg
		return nil
	}
}
