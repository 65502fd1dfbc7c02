/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package repository backs the repository tools with local checkouts and
// the GitHub API.
package repository

import (
	"context"

	"chainguard.dev/repochat/agents/toolcall/callbacks"
	"chainguard.dev/repochat/repository/clonecache"
	"chainguard.dev/repochat/repository/hosting"
	"chainguard.dev/repochat/repository/inspect"
)

// Service answers repository questions. Checkouts come from the cache; the
// hosting client is optional.
type Service struct {
	cache   *clonecache.Cache
	hosting *hosting.Client
}

// New returns a Service. A nil hosting client disables the issues and pull
// requests tool.
func New(cache *clonecache.Cache, hosting *hosting.Client) *Service {
	return &Service{cache: cache, hosting: hosting}
}

// Callbacks exposes s to the tool layer.
func (s *Service) Callbacks() callbacks.RepoCallbacks {
	cb := callbacks.RepoCallbacks{
		AllContents: func(ctx context.Context, repo string, exts []string) (string, error) {
			root, err := s.cache.Path(ctx, repo)
			if err != nil {
				return "", err
			}
			return inspect.AllContents(ctx, root, exts)
		},
		ReadFile: func(ctx context.Context, repo, filename string) (string, error) {
			root, err := s.cache.Path(ctx, repo)
			if err != nil {
				return "", err
			}
			return inspect.ReadFile(ctx, root, filename)
		},
		Structure: func(ctx context.Context, repo string) (string, error) {
			root, err := s.cache.Path(ctx, repo)
			if err != nil {
				return "", err
			}
			return inspect.Structure(ctx, root)
		},
		Search: func(ctx context.Context, repo, pattern string, exts []string) ([]callbacks.Match, error) {
			root, err := s.cache.Path(ctx, repo)
			if err != nil {
				return nil, err
			}
			return inspect.Search(ctx, root, pattern, exts)
		},
		RecentCommits: func(ctx context.Context, repo string, n int) (string, error) {
			root, err := s.cache.Path(ctx, repo)
			if err != nil {
				return "", err
			}
			return inspect.RecentCommits(ctx, root, n)
		},
	}
	if s.hosting != nil {
		cb.RecentIssuesAndPRs = s.hosting.RecentIssuesAndPRs
	}
	return cb
}
