/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package callbacks declares the capabilities repository tools delegate to.
//
// It has no model SDK or git dependencies, so the packages implementing the
// callbacks (clone cache, inspection, code hosting) can depend on it without
// importing the tool layer.
package callbacks

import "context"

// Match is one line matched by a code search.
type Match struct {
	FilePath string `json:"file_path"`
	LineNo   int    `json:"line_no"`
	Content  string `json:"content"`
}

// RepoCallbacks answers questions about a repository identified by its
// "org/name" slug. Implementations fetch the repository on first use.
type RepoCallbacks struct {
	// AllContents concatenates every file, optionally filtered by extension,
	// each preceded by a "# File: path" header.
	AllContents func(ctx context.Context, repo string, extensions []string) (string, error)

	// ReadFile returns the first file named filename in walk order.
	ReadFile func(ctx context.Context, repo, filename string) (string, error)

	// Structure renders the directory tree.
	Structure func(ctx context.Context, repo string) (string, error)

	// Search returns lines matching a regular expression.
	Search func(ctx context.Context, repo, pattern string, extensions []string) ([]Match, error)

	// RecentCommits renders the latest n commits with their diffs.
	RecentCommits func(ctx context.Context, repo string, n int) (string, error)

	// RecentIssuesAndPRs summarizes the latest n issues and n pull requests.
	RecentIssuesAndPRs func(ctx context.Context, owner, repo string, n int) (string, error)
}
