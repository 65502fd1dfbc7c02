/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package gittest builds throwaway git repositories for tests.
package gittest

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Commit is one commit of a fixture repository. Files maps slash-separated
// paths to contents and Delete lists paths to remove.
type Commit struct {
	Message string
	Files   map[string]string
	Delete  []string
	When    time.Time
}

// Repo initializes a repository in a temp dir, applies commits in order and
// returns its path along with the commit hashes, oldest first.
func Repo(t *testing.T, commits ...Commit) (string, []string) {
	t.Helper()

	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("PlainInit: %v", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Worktree: %v", err)
	}

	base := time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)
	hashes := make([]string, 0, len(commits))
	for i, c := range commits {
		paths := make([]string, 0, len(c.Files))
		for p := range c.Files {
			paths = append(paths, p)
		}
		sort.Strings(paths)

		for _, p := range paths {
			full := filepath.Join(dir, filepath.FromSlash(p))
			if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
				t.Fatalf("MkdirAll: %v", err)
			}
			if err := os.WriteFile(full, []byte(c.Files[p]), 0o644); err != nil {
				t.Fatalf("WriteFile: %v", err)
			}
			if _, err := wt.Add(p); err != nil {
				t.Fatalf("Add(%s): %v", p, err)
			}
		}
		for _, p := range c.Delete {
			if _, err := wt.Remove(p); err != nil {
				t.Fatalf("Remove(%s): %v", p, err)
			}
		}

		when := c.When
		if when.IsZero() {
			when = base.Add(time.Duration(i) * time.Hour)
		}
		hash, err := wt.Commit(c.Message, &git.CommitOptions{
			Author: &object.Signature{
				Name:  "Test",
				Email: "test@example.com",
				When:  when,
			},
		})
		if err != nil {
			t.Fatalf("Commit: %v", err)
		}
		hashes = append(hashes, hash.String())
	}

	if err := repo.Storer.SetReference(plumbing.NewSymbolicReference(plumbing.HEAD, plumbing.NewBranchReferenceName("master"))); err != nil {
		t.Fatalf("SetReference: %v", err)
	}
	return dir, hashes
}
