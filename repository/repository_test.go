/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package repository_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"chainguard.dev/repochat/agents/toolcall"
	"chainguard.dev/repochat/agents/toolcall/callbacks"
	"chainguard.dev/repochat/repository"
	"chainguard.dev/repochat/repository/clonecache"
	"chainguard.dev/repochat/repository/gittest"
	"chainguard.dev/repochat/repository/hosting"
	"github.com/stretchr/testify/require"
)

func registry(t *testing.T, h *hosting.Client) *toolcall.Registry {
	t.Helper()
	src, _ := gittest.Repo(t, gittest.Commit{
		Message: "initial",
		Files: map[string]string{
			"README.md":   "# demo\n",
			"src/main.py": "def main():\n    pass\n",
		},
	})
	cache, err := clonecache.New(t.TempDir(), clonecache.WithRemoteURL(func(string) string { return src }))
	require.NoError(t, err)

	r, err := toolcall.NewRegistry(toolcall.RepoTools(repository.New(cache, h).Callbacks())...)
	require.NoError(t, err)
	return r
}

func invoke(t *testing.T, r *toolcall.Registry, name string, args map[string]any) (string, error) {
	t.Helper()
	return r.Invoke(context.Background(), toolcall.ToolCall{ID: "c1", Name: name, Args: args}, nil)
}

func TestRepositoryTools(t *testing.T) {
	r := registry(t, nil)

	first, err := invoke(t, r, toolcall.ToolStructure, map[string]any{"repo_name": "org/demo"})
	require.NoError(t, err)
	require.Equal(t, "demo/\n    README.md\n    src/\n        main.py\n", first)

	second, err := invoke(t, r, toolcall.ToolStructure, map[string]any{"repo_name": "org/demo"})
	require.NoError(t, err)
	require.Equal(t, first, second)

	readme, err := invoke(t, r, toolcall.ToolReadFile, map[string]any{"repo_name": "org/demo", "filename": "README.md"})
	require.NoError(t, err)
	require.Equal(t, "# demo\n", readme)

	out, err := invoke(t, r, toolcall.ToolCodeSearch, map[string]any{"repo_name": "org/demo", "search_pattern": `def \w+`})
	require.NoError(t, err)
	var matches []callbacks.Match
	require.NoError(t, json.Unmarshal([]byte(out), &matches))
	require.Equal(t, []callbacks.Match{{FilePath: "src/main.py", LineNo: 1, Content: "def main():"}}, matches)

	contents, err := invoke(t, r, toolcall.ToolAllContents, map[string]any{"repo_name": "org/demo", "file_extensions": []any{".md"}})
	require.NoError(t, err)
	require.Equal(t, "\n# File: README.md\n# demo\n", contents)

	commits, err := invoke(t, r, toolcall.ToolRecentCommits, map[string]any{"repo_name": "org/demo", "num_commits": 1})
	require.NoError(t, err)
	require.Contains(t, commits, "Message: initial")
}

func TestRepositoryToolErrors(t *testing.T) {
	r := registry(t, nil)

	_, err := invoke(t, r, toolcall.ToolReadFile, map[string]any{"repo_name": "org/demo", "filename": "missing.txt"})
	var execErr *toolcall.ExecutionError
	require.True(t, errors.As(err, &execErr), "got %v", err)

	_, err = invoke(t, r, toolcall.ToolStructure, map[string]any{"repo_name": "not-a-slug"})
	require.ErrorIs(t, err, clonecache.ErrInvalidName)
}

func toolNames(r *toolcall.Registry) []string {
	var names []string
	for _, d := range r.Definitions() {
		names = append(names, d.Name)
	}
	return names
}

func TestRepositoryToolsWithoutHosting(t *testing.T) {
	require.NotContains(t, toolNames(registry(t, nil)), toolcall.ToolIssuesAndPRs)
	require.Contains(t, toolNames(registry(t, hosting.New(nil))), toolcall.ToolIssuesAndPRs)
}

func TestNewRegistry(t *testing.T) {
	r, err := repository.NewRegistry(context.Background(), repository.Config{CacheDir: t.TempDir()})
	require.NoError(t, err)

	var names []string
	for _, d := range r.Definitions() {
		names = append(names, d.Name)
	}
	require.Equal(t, []string{
		toolcall.ToolCodeSearch,
		toolcall.ToolReadFile,
		toolcall.ToolAllContents,
		toolcall.ToolRecentCommits,
		toolcall.ToolIssuesAndPRs,
		toolcall.ToolStructure,
	}, names)
}

func TestConfigTokenSource(t *testing.T) {
	require.Nil(t, repository.Config{}.TokenSource())

	tok, err := repository.Config{GitHubToken: "abc"}.TokenSource().Token()
	require.NoError(t, err)
	require.Equal(t, "abc", tok.AccessToken)
}
