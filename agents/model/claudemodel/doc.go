/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package claudemodel implements model.Model on the Anthropic Messages API.
//
// Requests are streamed and accumulated into a single message. Tool
// definitions map onto Anthropic tool params; ToolChoiceRequired becomes
// tool_choice "any", and ToolChoiceNone omits tools entirely. Rate limits and
// overloaded responses (429, 503, 504, 529) are retried with backoff.
//
//	client := anthropic.NewClient(option.WithAPIKey(key))
//	m, err := claudemodel.New(client, claudemodel.WithModel("claude-sonnet-4-5"))
package claudemodel
