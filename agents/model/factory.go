/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package model

import (
	"context"
	"fmt"
	"strings"
)

// Provider identifies a model vendor.
type Provider string

const (
	ProviderAnthropic Provider = "anthropic"
	ProviderGoogle    Provider = "google"
	ProviderOpenAI    Provider = "openai"
)

// ProviderFor infers the provider from a model name.
func ProviderFor(name string) (Provider, error) {
	switch {
	case strings.HasPrefix(name, "claude-"):
		return ProviderAnthropic, nil
	case strings.HasPrefix(name, "gemini-"):
		return ProviderGoogle, nil
	case strings.HasPrefix(name, "gpt-"),
		strings.HasPrefix(name, "o1"),
		strings.HasPrefix(name, "o3"),
		strings.HasPrefix(name, "o4"):
		return ProviderOpenAI, nil
	}
	return "", fmt.Errorf("unsupported model %q: expected a claude-*, gemini-*, gpt-* or o-series name", name)
}

// Constructor builds a Model for one provider.
type Constructor func(ctx context.Context, name string) (Model, error)

// Factory maps providers to constructors. The cmd binaries populate one with
// the concrete provider packages so this package stays free of SDK imports.
type Factory map[Provider]Constructor

// New builds the model named name using the constructor for its provider.
func (f Factory) New(ctx context.Context, name string) (Model, error) {
	p, err := ProviderFor(name)
	if err != nil {
		return nil, err
	}
	ctor, ok := f[p]
	if !ok {
		return nil, fmt.Errorf("no %s provider configured for model %q", p, name)
	}
	m, err := ctor(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("creating %s model %q: %w", p, name, err)
	}
	return m, nil
}
