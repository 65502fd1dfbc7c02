/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package toolcall

import (
	"context"
	"errors"

	"chainguard.dev/repochat/agents/toolcall/callbacks"
	"github.com/chainguard-dev/clog"
)

// Repository tool names.
const (
	ToolAllContents   = "get_all_repo_contents"
	ToolReadFile      = "file_content_parser"
	ToolStructure     = "get_repo_structure"
	ToolCodeSearch    = "code_search"
	ToolRecentCommits = "get_recent_commits_with_diffs"
	ToolIssuesAndPRs  = "get_recent_issues_and_prs"
)

// DefaultSearchExtensions are searched by code_search when the call names none.
var DefaultSearchExtensions = []string{".py"}

var (
	repoNameParam = Parameter{
		Name:        "repo_name",
		Type:        "string",
		Description: "Repository in org/name form, for example chainguard-dev/apko.",
		Required:    true,
	}
	extensionsParam = Parameter{
		Name:        "file_extensions",
		Type:        "array",
		Items:       "string",
		Description: "Only include files with these extensions, for example [\".go\", \".md\"].",
	}
	reasoningParam = Parameter{
		Name:        "reasoning",
		Type:        "string",
		Description: "Why this call helps with the current step.",
	}
)

// RepoTools returns the repository tools backed by cb. Tools whose callback
// is nil are omitted.
func RepoTools(cb callbacks.RepoCallbacks) []Tool {
	var tools []Tool

	if cb.AllContents != nil {
		tools = append(tools, Tool{
			Def: Definition{
				Name:        ToolAllContents,
				Description: "Return the contents of every file in the repository, each preceded by a '# File: <path>' header. Large repositories produce large output; prefer file_extensions.",
				Parameters:  []Parameter{repoNameParam, extensionsParam, reasoningParam},
			},
			Handler: func(ctx context.Context, call ToolCall) (any, error) {
				repo, exts, err := repoAndExtensions(ctx, call, nil)
				if err != nil {
					return nil, err
				}
				return cb.AllContents(ctx, repo, exts)
			},
		})
	}

	if cb.ReadFile != nil {
		tools = append(tools, Tool{
			Def: Definition{
				Name:        ToolReadFile,
				Description: "Read one file by name. When several files share the name, the first one found is returned.",
				Parameters: []Parameter{repoNameParam, {
					Name:        "filename",
					Type:        "string",
					Description: "Base name of the file to read, for example README.md.",
					Required:    true,
				}, reasoningParam},
			},
			Handler: func(ctx context.Context, call ToolCall) (any, error) {
				repo, err := repoName(ctx, call)
				if err != nil {
					return nil, err
				}
				name, err := Param[string](call, nil, "filename")
				if err != nil {
					return nil, err
				}
				return cb.ReadFile(ctx, repo, name)
			},
		})
	}

	if cb.Structure != nil {
		tools = append(tools, Tool{
			Def: Definition{
				Name:        ToolStructure,
				Description: "Render the repository directory tree, one entry per line, indented four spaces per level.",
				Parameters:  []Parameter{repoNameParam, reasoningParam},
			},
			Handler: func(ctx context.Context, call ToolCall) (any, error) {
				repo, err := repoName(ctx, call)
				if err != nil {
					return nil, err
				}
				return cb.Structure(ctx, repo)
			},
		})
	}

	if cb.Search != nil {
		tools = append(tools, Tool{
			Def: Definition{
				Name:        ToolCodeSearch,
				Description: "Search source files for lines matching a regular expression. Returns file_path, line_no and content for each match. Searches .py files unless file_extensions is set.",
				Parameters: []Parameter{repoNameParam, {
					Name:        "search_pattern",
					Type:        "string",
					Description: "Regular expression (RE2 syntax) matched against each line.",
					Required:    true,
				}, extensionsParam, reasoningParam},
			},
			Handler: func(ctx context.Context, call ToolCall) (any, error) {
				repo, exts, err := repoAndExtensions(ctx, call, DefaultSearchExtensions)
				if err != nil {
					return nil, err
				}
				pattern, err := Param[string](call, nil, "search_pattern")
				if err != nil {
					return nil, err
				}
				matches, err := cb.Search(ctx, repo, pattern, exts)
				if err != nil {
					return nil, err
				}
				if matches == nil {
					matches = []callbacks.Match{}
				}
				return matches, nil
			},
		})
	}

	if cb.RecentCommits != nil {
		tools = append(tools, Tool{
			Def: Definition{
				Name:        ToolRecentCommits,
				Description: "Show the most recent commits on the default branch with author, date, message and unified diff.",
				Parameters: []Parameter{repoNameParam, {
					Name:        "num_commits",
					Type:        "integer",
					Description: "How many commits to show. Defaults to 5.",
				}, reasoningParam},
			},
			Handler: func(ctx context.Context, call ToolCall) (any, error) {
				repo, err := repoName(ctx, call)
				if err != nil {
					return nil, err
				}
				n, err := positive(call, "num_commits", 5)
				if err != nil {
					return nil, err
				}
				return cb.RecentCommits(ctx, repo, n)
			},
		})
	}

	if cb.RecentIssuesAndPRs != nil {
		tools = append(tools, Tool{
			Def: Definition{
				Name:        ToolIssuesAndPRs,
				Description: "Summarize the most recent issues and pull requests of a GitHub repository: title, author, state, creation date, URL and the start of the body.",
				Parameters: []Parameter{{
					Name:        "owner",
					Type:        "string",
					Description: "Repository owner (user or organization).",
					Required:    true,
				}, {
					Name:        "repo",
					Type:        "string",
					Description: "Repository name without the owner.",
					Required:    true,
				}, {
					Name:        "num_items",
					Type:        "integer",
					Description: "How many issues and how many pull requests to show. Defaults to 5, at most 100.",
				}, reasoningParam},
			},
			Handler: func(ctx context.Context, call ToolCall) (any, error) {
				logReasoning(ctx, call)
				owner, err := Param[string](call, nil, "owner")
				if err != nil {
					return nil, err
				}
				repo, err := Param[string](call, nil, "repo")
				if err != nil {
					return nil, err
				}
				n, err := positive(call, "num_items", 5)
				if err != nil {
					return nil, err
				}
				return cb.RecentIssuesAndPRs(ctx, owner, repo, n)
			},
		})
	}

	return tools
}

func logReasoning(ctx context.Context, call ToolCall) {
	if reasoning, _ := OptionalParam(call, "reasoning", ""); reasoning != "" {
		clog.FromContext(ctx).With("tool", call.Name, "reasoning", reasoning).Info("Tool call reasoning")
	}
}

func repoName(ctx context.Context, call ToolCall) (string, error) {
	logReasoning(ctx, call)
	return Param[string](call, nil, "repo_name")
}

func repoAndExtensions(ctx context.Context, call ToolCall, def []string) (string, []string, error) {
	repo, err := repoName(ctx, call)
	if err != nil {
		return "", nil, err
	}
	exts, err := OptionalParam(call, "file_extensions", def)
	if err != nil {
		return "", nil, err
	}
	return repo, exts, nil
}

func positive(call ToolCall, name string, def int) (int, error) {
	n, err := OptionalParam(call, name, def)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, errors.New(name + " must be positive")
	}
	return n, nil
}
