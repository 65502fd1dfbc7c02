/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package googlemodel

import (
	"fmt"
	"strings"

	"chainguard.dev/repochat/agents/retry"
)

// Option configures a Gemini model.
type Option func(*googleModel) error

// WithModel sets the model to use for generation.
func WithModel(name string) Option {
	return func(m *googleModel) error {
		if !strings.HasPrefix(name, "gemini-") {
			return fmt.Errorf("model %q does not appear to be a Gemini model (expected gemini-* format)", name)
		}
		m.name = name
		return nil
	}
}

// WithTemperature sets the temperature for generation.
// Gemini accepts values from 0.0 to 2.0.
func WithTemperature(temperature float32) Option {
	return func(m *googleModel) error {
		if temperature < 0.0 || temperature > 2.0 {
			return fmt.Errorf("temperature must be between 0.0 and 2.0, got %f", temperature)
		}
		m.temperature = temperature
		return nil
	}
}

// WithMaxOutputTokens sets the maximum output tokens for generation.
func WithMaxOutputTokens(tokens int32) Option {
	return func(m *googleModel) error {
		if tokens <= 0 {
			return fmt.Errorf("max output tokens must be positive, got %d", tokens)
		}
		if tokens > 65536 {
			return fmt.Errorf("max output tokens %d exceeds maximum of 65536", tokens)
		}
		m.maxOutputTokens = tokens
		return nil
	}
}

// WithRetryConfig overrides the backoff schedule for transient errors.
func WithRetryConfig(cfg retry.Config) Option {
	return func(m *googleModel) error {
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid retry config: %w", err)
		}
		m.retryConfig = cfg
		return nil
	}
}
