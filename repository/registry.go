/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package repository

import (
	"context"
	"fmt"

	"chainguard.dev/repochat/agents/toolcall"
	"chainguard.dev/repochat/repository/clonecache"
	"chainguard.dev/repochat/repository/hosting"
	"golang.org/x/oauth2"
)

// Config selects where checkouts live and how GitHub is reached.
type Config struct {
	CacheDir string `env:"CLONE_DIR,default=./tmp"`
	// GitHubToken is optional; it raises API rate limits and allows
	// private repositories.
	GitHubToken string `env:"GITHUB_TOKEN"`
}

// TokenSource returns a static token source for GitHubToken, or nil.
func (c Config) TokenSource() oauth2.TokenSource {
	if c.GitHubToken == "" {
		return nil
	}
	return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: c.GitHubToken})
}

// NewRegistry builds the repository tools described by cfg.
func NewRegistry(ctx context.Context, cfg Config) (*toolcall.Registry, error) {
	var opts []clonecache.Option
	ts := cfg.TokenSource()
	if ts != nil {
		opts = append(opts, clonecache.WithTokenSource(ts))
	}
	cache, err := clonecache.New(cfg.CacheDir, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating clone cache: %w", err)
	}

	svc := New(cache, hosting.NewFromTokenSource(ctx, ts))
	reg, err := toolcall.NewRegistry(toolcall.RepoTools(svc.Callbacks())...)
	if err != nil {
		return nil, fmt.Errorf("registering repository tools: %w", err)
	}
	return reg, nil
}
