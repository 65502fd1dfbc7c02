/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package inspect

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
	"github.com/waigani/diffparser"
)

var commitSeparator = strings.Repeat("-", 80)

// FileChange counts the lines a commit added to and removed from one file.
type FileChange struct {
	Path    string
	Added   int
	Removed int
}

// CommitInfo is one commit of RecentCommits.
type CommitInfo struct {
	Hash    string
	Author  string
	Email   string
	When    time.Time
	Message string
	Diff    string
	Changes []FileChange
}

// String renders the commit the way RecentCommits does.
func (c CommitInfo) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Commit: %s\n", c.Hash)
	fmt.Fprintf(&b, "Author: %s <%s>\n", c.Author, c.Email)
	fmt.Fprintf(&b, "Date: %s\n\n", c.When.Format(time.RFC3339))
	fmt.Fprintf(&b, "Message: %s\n\n", c.Message)
	if len(c.Changes) > 0 {
		b.WriteString("Files changed:\n")
		for _, fc := range c.Changes {
			fmt.Fprintf(&b, "%s%s (+%d -%d)\n", indent, fc.Path, fc.Added, fc.Removed)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Diff:\n%s\n%s", c.Diff, commitSeparator)
	return b.String()
}

// Commits returns the latest n commits reachable from HEAD, newest first,
// each with the unified diff against its first parent.
func Commits(ctx context.Context, root string, n int) ([]CommitInfo, error) {
	if n <= 0 {
		return nil, fmt.Errorf("number of commits must be positive, got %d", n)
	}
	repo, err := git.PlainOpen(root)
	if err != nil {
		return nil, fmt.Errorf("opening repository: %w", err)
	}
	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("resolving HEAD: %w", err)
	}
	iter, err := repo.Log(&git.LogOptions{From: head.Hash()})
	if err != nil {
		return nil, fmt.Errorf("reading log: %w", err)
	}
	defer iter.Close()

	var out []CommitInfo
	err = iter.ForEach(func(c *object.Commit) error {
		if len(out) == n {
			return storer.ErrStop
		}
		info, err := describeCommit(ctx, c)
		if err != nil {
			return err
		}
		out = append(out, info)
		return nil
	})
	if err != nil && !errors.Is(err, storer.ErrStop) {
		return nil, err
	}
	return out, nil
}

// RecentCommits renders the latest n commits, separated by blank lines.
func RecentCommits(ctx context.Context, root string, n int) (string, error) {
	commits, err := Commits(ctx, root, n)
	if err != nil {
		return "", err
	}
	parts := make([]string, 0, len(commits))
	for _, c := range commits {
		parts = append(parts, c.String())
	}
	return strings.Join(parts, "\n\n"), nil
}

func describeCommit(ctx context.Context, c *object.Commit) (CommitInfo, error) {
	tree, err := c.Tree()
	if err != nil {
		return CommitInfo{}, fmt.Errorf("reading tree of %s: %w", c.Hash, err)
	}
	var parentTree *object.Tree
	if c.NumParents() > 0 {
		parent, err := c.Parent(0)
		if err != nil {
			return CommitInfo{}, fmt.Errorf("reading parent of %s: %w", c.Hash, err)
		}
		if parentTree, err = parent.Tree(); err != nil {
			return CommitInfo{}, fmt.Errorf("reading parent tree of %s: %w", c.Hash, err)
		}
	}

	changes, err := object.DiffTreeWithOptions(ctx, parentTree, tree, object.DefaultDiffTreeOptions)
	if err != nil {
		return CommitInfo{}, fmt.Errorf("diffing %s: %w", c.Hash, err)
	}
	patch, err := changes.PatchContext(ctx)
	if err != nil {
		return CommitInfo{}, fmt.Errorf("building patch for %s: %w", c.Hash, err)
	}
	diff := patch.String()

	return CommitInfo{
		Hash:    c.Hash.String(),
		Author:  c.Author.Name,
		Email:   c.Author.Email,
		When:    c.Committer.When,
		Message: strings.TrimSpace(c.Message),
		Diff:    diff,
		Changes: summarize(diff),
	}, nil
}

// summarize counts added and removed lines per file of a unified diff. It
// returns nil when the diff does not parse.
func summarize(diff string) []FileChange {
	if strings.TrimSpace(diff) == "" {
		return nil
	}
	parsed, err := diffparser.Parse(diff)
	if err != nil {
		return nil
	}

	out := make([]FileChange, 0, len(parsed.Files))
	for _, f := range parsed.Files {
		fc := FileChange{Path: f.NewName}
		if f.Mode == diffparser.DELETED || fc.Path == "" {
			fc.Path = f.OrigName
		}
		for _, h := range f.Hunks {
			for _, l := range h.NewRange.Lines {
				if l.Mode == diffparser.ADDED {
					fc.Added++
				}
			}
			for _, l := range h.OrigRange.Lines {
				if l.Mode == diffparser.REMOVED {
					fc.Removed++
				}
			}
		}
		out = append(out, fc)
	}
	return out
}
