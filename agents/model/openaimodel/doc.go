/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package openaimodel implements model.Model on the OpenAI chat completions
// API. ToolChoiceRequired maps to tool_choice "required".
package openaimodel
