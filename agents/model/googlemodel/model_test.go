/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package googlemodel

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"chainguard.dev/repochat/agents/conversation"
	"chainguard.dev/repochat/agents/model"
	"chainguard.dev/repochat/agents/retry"
	"chainguard.dev/repochat/agents/toolcall"
	"github.com/google/go-cmp/cmp"
	"google.golang.org/genai"
)

func TestToContents(t *testing.T) {
	call := conversation.ToolCall{ID: "c1", Name: "get_repo_structure", Args: map[string]any{"repo_name": "org/repo"}}
	got, err := toContents([]conversation.Message{
		conversation.System("ignored here"),
		conversation.User("What is in org/repo?"),
		conversation.AssistantToolCalls("", call),
		conversation.ToolResult("c1", "src/"),
		conversation.Assistant("It has src/."),
	})
	if err != nil {
		t.Fatalf("toContents: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("got %d contents, want 4", len(got))
	}
	roles := []string{got[0].Role, got[1].Role, got[2].Role, got[3].Role}
	if diff := cmp.Diff([]string{"user", "model", "user", "model"}, roles); diff != "" {
		t.Errorf("roles (-want +got):\n%s", diff)
	}
	resp := got[2].Parts[0].FunctionResponse
	if resp == nil || resp.Name != "get_repo_structure" || resp.Response["output"] != "src/" {
		t.Errorf("function response = %+v", resp)
	}
}

func TestConfig(t *testing.T) {
	m := &googleModel{name: "gemini-2.5-flash", temperature: 0.2, maxOutputTokens: 100}
	defs := []toolcall.Definition{{
		Name: "plan",
		Parameters: []toolcall.Parameter{
			{Name: "steps", Type: "array", Required: true},
			{Name: "limit", Type: "integer"},
		},
	}}

	cfg := m.config(&model.Request{System: "sys", Tools: defs, ToolChoice: model.ToolChoiceRequired})
	if cfg.SystemInstruction == nil || cfg.SystemInstruction.Parts[0].Text != "sys" {
		t.Errorf("SystemInstruction = %+v", cfg.SystemInstruction)
	}
	if len(cfg.Tools) != 1 || len(cfg.Tools[0].FunctionDeclarations) != 1 {
		t.Fatalf("Tools = %+v", cfg.Tools)
	}
	params := cfg.Tools[0].FunctionDeclarations[0].Parameters
	if params.Properties["steps"].Type != genai.TypeArray || params.Properties["steps"].Items.Type != genai.TypeString {
		t.Errorf("steps schema = %+v", params.Properties["steps"])
	}
	if params.Properties["limit"].Type != genai.TypeInteger {
		t.Errorf("limit schema = %+v", params.Properties["limit"])
	}
	if diff := cmp.Diff([]string{"steps"}, params.Required); diff != "" {
		t.Errorf("Required (-want +got):\n%s", diff)
	}
	if cfg.ToolConfig == nil || cfg.ToolConfig.FunctionCallingConfig.Mode != genai.FunctionCallingConfigModeAny {
		t.Errorf("ToolConfig = %+v", cfg.ToolConfig)
	}

	cfg = m.config(&model.Request{Tools: defs, ToolChoice: model.ToolChoiceNone})
	if len(cfg.Tools) != 0 || cfg.ToolConfig != nil {
		t.Errorf("ToolChoiceNone config carries tools: %+v", cfg.Tools)
	}
}

func TestFromResponse(t *testing.T) {
	out := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{
				{Text: "pondering", Thought: true},
				{Text: "Here is the plan."},
				{FunctionCall: &genai.FunctionCall{Name: "plan", Args: map[string]any{"steps": []any{"a"}}}},
			}},
		}},
		UsageMetadata: &genai.GenerateContentResponseUsageMetadata{PromptTokenCount: 7, CandidatesTokenCount: 3},
	}
	got, err := fromResponse(out)
	if err != nil {
		t.Fatalf("fromResponse: %v", err)
	}
	want := &model.Response{
		Text:      "Here is the plan.",
		ToolCalls: []conversation.ToolCall{{Name: "plan", Args: map[string]any{"steps": []any{"a"}}}},
		Usage:     model.Usage{InputTokens: 7, OutputTokens: 3},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("fromResponse() (-want +got):\n%s", diff)
	}

	_, err = fromResponse(&genai.GenerateContentResponse{Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonMalformedFunctionCall}}})
	if !errors.Is(err, errMalformedCall) {
		t.Errorf("malformed call error = %v, want errMalformedCall", err)
	}
	if _, err := fromResponse(&genai.GenerateContentResponse{}); err == nil {
		t.Error("fromResponse() with no candidates = nil error")
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{err: errors.New("Error 429, Message: Resource exhausted"), want: true},
		{err: errors.New("rpc error: RESOURCE_EXHAUSTED"), want: true},
		{err: errMalformedCall, want: true},
		{err: errors.New("Error 400, Message: invalid argument"), want: false},
	}
	for _, tt := range tests {
		if got := isRetryable(tt.err); got != tt.want {
			t.Errorf("isRetryable(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "gemini-2.5-flash:generateContent") {
			http.Error(w, "unexpected path "+r.URL.Path, http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"candidates": [{"content": {"role": "model", "parts": [{"text": "The answer."}]}, "finishReason": "STOP"}],
			"usageMetadata": {"promptTokenCount": 4, "candidatesTokenCount": 2}
		}`))
	}))
	defer srv.Close()

	ctx := context.Background()
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      "test",
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: srv.URL + "/"},
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	m, err := New(client, WithRetryConfig(retry.Config{MaxRetries: 0, BaseBackoff: time.Millisecond}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	resp, err := m.Generate(ctx, &model.Request{Messages: []conversation.Message{conversation.User("q")}})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if resp.Text != "The answer." || resp.Usage.InputTokens != 4 {
		t.Errorf("Generate() = %+v", resp)
	}
}
