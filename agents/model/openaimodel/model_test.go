/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package openaimodel

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"chainguard.dev/repochat/agents/conversation"
	"chainguard.dev/repochat/agents/model"
	"chainguard.dev/repochat/agents/retry"
	"chainguard.dev/repochat/agents/toolcall"
	"github.com/google/go-cmp/cmp"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			http.Error(w, "unexpected path "+r.URL.Path, http.StatusNotFound)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1,
			"model": "gpt-4o",
			"choices": [{
				"index": 0,
				"finish_reason": "tool_calls",
				"message": {
					"role": "assistant",
					"content": null,
					"tool_calls": [{
						"id": "call_1",
						"type": "function",
						"function": {"name": "plan", "arguments": "{\"steps\":[\"look\"]}"}
					}]
				}
			}],
			"usage": {"prompt_tokens": 10, "completion_tokens": 4, "total_tokens": 14}
		}`))
	}))
	defer srv.Close()

	client := openai.NewClient(option.WithAPIKey("test"), option.WithBaseURL(srv.URL), option.WithMaxRetries(0))
	m, err := New(client, WithRetryConfig(retry.Config{BaseBackoff: time.Millisecond}))
	require.NoError(t, err)

	resp, err := m.Generate(context.Background(), &model.Request{
		System:   "Plan carefully.",
		Messages: []conversation.Message{conversation.User("How is org/repo tested?")},
		Tools: []toolcall.Definition{{
			Name:       "plan",
			Parameters: []toolcall.Parameter{{Name: "steps", Type: "array", Required: true}},
		}},
		ToolChoice: model.ToolChoiceRequired,
	})
	require.NoError(t, err)

	want := &model.Response{
		ToolCalls: []conversation.ToolCall{{ID: "call_1", Name: "plan", Args: map[string]any{"steps": []any{"look"}}}},
		Usage:     model.Usage{InputTokens: 10, OutputTokens: 4},
	}
	if diff := cmp.Diff(want, resp); diff != "" {
		t.Errorf("Generate() (-want +got):\n%s", diff)
	}

	require.Equal(t, "required", body["tool_choice"])
	msgs, ok := body["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 2)
	require.Equal(t, "system", msgs[0].(map[string]any)["role"])
}

func TestToParamsRoundTripsToolCalls(t *testing.T) {
	m := &openaiModel{name: "gpt-4o", maxTokens: 100}
	call := conversation.ToolCall{ID: "call_7", Name: "code_search", Args: map[string]any{"search_pattern": "main"}}
	params, err := m.toParams(&model.Request{
		Messages: []conversation.Message{
			conversation.User("q"),
			conversation.AssistantToolCalls("", call),
			conversation.ToolResult("call_7", "[]"),
		},
		Tools:      []toolcall.Definition{{Name: "code_search"}},
		ToolChoice: model.ToolChoiceNone,
	})
	require.NoError(t, err)
	require.Len(t, params.Messages, 3)
	require.Empty(t, params.Tools)

	asst := params.Messages[1].OfAssistant
	require.NotNil(t, asst)
	require.Len(t, asst.ToolCalls, 1)
	require.Equal(t, "call_7", asst.ToolCalls[0].ID)
	require.JSONEq(t, `{"search_pattern":"main"}`, asst.ToolCalls[0].Function.Arguments)
	require.NotNil(t, params.Messages[2].OfTool)
}

func TestOptions(t *testing.T) {
	client := openai.NewClient(option.WithAPIKey("test"))
	for _, name := range []string{"gpt-4.1", "o3-mini", "o4-mini"} {
		if _, err := New(client, WithModel(name)); err != nil {
			t.Errorf("WithModel(%q) = %v", name, err)
		}
	}
	if _, err := New(client, WithModel("claude-sonnet-4-5")); err == nil {
		t.Error("WithModel(claude) = nil error")
	}
	if _, err := New(client, WithTemperature(3)); err == nil {
		t.Error("WithTemperature(3) = nil error")
	}
}

func TestIsRetryable(t *testing.T) {
	if !isRetryable(&openai.Error{StatusCode: 429}) {
		t.Error("429 not retryable")
	}
	if isRetryable(&openai.Error{StatusCode: 401}) {
		t.Error("401 retryable")
	}
	if isRetryable(errors.New("boom")) {
		t.Error("untyped error retryable")
	}
}
