/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package googlemodel

import (
	"context"
	"errors"
	"fmt"
	"time"

	"chainguard.dev/repochat/agents/conversation"
	"chainguard.dev/repochat/agents/metrics"
	"chainguard.dev/repochat/agents/model"
	"chainguard.dev/repochat/agents/retry"
	"chainguard.dev/repochat/agents/toolcall"
	"github.com/chainguard-dev/clog"
	"google.golang.org/genai"
)

const (
	roleUser  = "user"
	roleModel = "model"
)

// errMalformedCall is returned when Gemini emits a function call it cannot
// parse. The same request usually succeeds when sent again.
var errMalformedCall = errors.New("model produced a malformed function call")

type googleModel struct {
	client          *genai.Client
	name            string
	temperature     float32
	maxOutputTokens int32
	retryConfig     retry.Config
	metrics         *metrics.GenAI
}

var _ model.Model = (*googleModel)(nil)

// New returns a model.Model backed by client.
func New(client *genai.Client, opts ...Option) (model.Model, error) {
	if client == nil {
		return nil, errors.New("client cannot be nil")
	}
	m := &googleModel{
		client:          client,
		name:            "gemini-2.5-flash",
		temperature:     0.1,
		maxOutputTokens: 8192,
		retryConfig:     retry.DefaultConfig(),
		metrics:         metrics.NewGenAI(metrics.MeterName),
	}
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}
	return m, nil
}

func (m *googleModel) Name() string { return m.name }

func (m *googleModel) Generate(ctx context.Context, req *model.Request) (*model.Response, error) {
	contents, err := toContents(req.Messages)
	if err != nil {
		return nil, err
	}
	config := m.config(req)

	start := time.Now()
	resp, err := retry.Do(ctx, m.retryConfig, "generate_content", isRetryable, func() (*model.Response, error) {
		out, err := m.client.Models.GenerateContent(ctx, m.name, contents, config)
		if err != nil {
			return nil, err
		}
		if out.UsageMetadata != nil {
			m.metrics.RecordTokens(ctx, m.name, int64(out.UsageMetadata.PromptTokenCount), int64(out.UsageMetadata.CandidatesTokenCount))
		}
		return fromResponse(out)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate Gemini response: %w", err)
	}
	m.metrics.RecordLatency(ctx, m.name, time.Since(start))

	clog.FromContext(ctx).With("model", m.name).
		With("tool_calls", len(resp.ToolCalls)).
		Debug("Gemini turn complete")
	return resp, nil
}

func (m *googleModel) config(req *model.Request) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(m.temperature),
		MaxOutputTokens: m.maxOutputTokens,
	}
	if system := model.SystemText(req); system != "" {
		config.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: system}}}
	}
	if req.ToolChoice == model.ToolChoiceNone || len(req.Tools) == 0 {
		return config
	}

	decls := make([]*genai.FunctionDeclaration, 0, len(req.Tools))
	for _, def := range req.Tools {
		decls = append(decls, declaration(def))
	}
	config.Tools = []*genai.Tool{{FunctionDeclarations: decls}}
	if req.ToolChoice == model.ToolChoiceRequired {
		config.ToolConfig = &genai.ToolConfig{
			FunctionCallingConfig: &genai.FunctionCallingConfig{Mode: genai.FunctionCallingConfigModeAny},
		}
	}
	return config
}

func declaration(def toolcall.Definition) *genai.FunctionDeclaration {
	params := &genai.Schema{
		Type:       genai.TypeObject,
		Properties: make(map[string]*genai.Schema, len(def.Parameters)),
	}
	for _, p := range def.Parameters {
		s := &genai.Schema{Type: schemaType(p.Type), Description: p.Description}
		if p.Type == "array" {
			items := p.Items
			if items == "" {
				items = "string"
			}
			s.Items = &genai.Schema{Type: schemaType(items)}
		}
		params.Properties[p.Name] = s
		if p.Required {
			params.Required = append(params.Required, p.Name)
		}
	}
	return &genai.FunctionDeclaration{
		Name:        def.Name,
		Description: def.Description,
		Parameters:  params,
	}
}

func schemaType(t string) genai.Type {
	switch t {
	case "integer":
		return genai.TypeInteger
	case "number":
		return genai.TypeNumber
	case "boolean":
		return genai.TypeBoolean
	case "array":
		return genai.TypeArray
	case "object":
		return genai.TypeObject
	default:
		return genai.TypeString
	}
}

// toContents converts the log to Gemini contents. Function responses need
// the function name, which is recovered from the assistant turn that
// requested the call.
func toContents(msgs []conversation.Message) ([]*genai.Content, error) {
	var out []*genai.Content
	names := map[string]string{}
	appendUser := func(part *genai.Part) {
		if n := len(out); n > 0 && out[n-1].Role == roleUser {
			out[n-1].Parts = append(out[n-1].Parts, part)
			return
		}
		out = append(out, &genai.Content{Role: roleUser, Parts: []*genai.Part{part}})
	}

	for _, msg := range msgs {
		switch msg.Role {
		case conversation.RoleSystem:
		case conversation.RoleUser:
			appendUser(&genai.Part{Text: msg.Content})
		case conversation.RoleTool:
			appendUser(&genai.Part{FunctionResponse: &genai.FunctionResponse{
				ID:       msg.ToolCallID,
				Name:     names[msg.ToolCallID],
				Response: map[string]any{"output": msg.Content},
			}})
		case conversation.RoleAssistant:
			content := &genai.Content{Role: roleModel}
			if msg.Content != "" {
				content.Parts = append(content.Parts, &genai.Part{Text: msg.Content})
			}
			for _, call := range msg.ToolCalls {
				names[call.ID] = call.Name
				content.Parts = append(content.Parts, &genai.Part{FunctionCall: &genai.FunctionCall{
					ID:   call.ID,
					Name: call.Name,
					Args: call.Args,
				}})
			}
			if len(content.Parts) > 0 {
				out = append(out, content)
			}
		default:
			return nil, fmt.Errorf("unsupported role %q", msg.Role)
		}
	}
	return out, nil
}

func fromResponse(out *genai.GenerateContentResponse) (*model.Response, error) {
	resp := &model.Response{}
	if out.UsageMetadata != nil {
		resp.Usage = model.Usage{
			InputTokens:  int64(out.UsageMetadata.PromptTokenCount),
			OutputTokens: int64(out.UsageMetadata.CandidatesTokenCount),
		}
	}
	if len(out.Candidates) == 0 {
		return nil, errors.New("no candidates in Gemini response")
	}
	candidate := out.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonMalformedFunctionCall {
		return nil, errMalformedCall
	}
	if candidate.Content == nil {
		return resp, nil
	}
	for _, part := range candidate.Content.Parts {
		switch {
		case part.FunctionCall != nil:
			resp.ToolCalls = append(resp.ToolCalls, conversation.ToolCall{
				ID:   part.FunctionCall.ID,
				Name: part.FunctionCall.Name,
				Args: part.FunctionCall.Args,
			})
		case part.Text != "" && !part.Thought:
			resp.Text += part.Text
		}
	}
	return resp, nil
}

// isRetryable matches quota, overload and transient server errors. The SDK
// does not expose typed errors for these, so the message is inspected.
func isRetryable(err error) bool {
	return errors.Is(err, errMalformedCall) || transient(err)
}

var transient = retry.MessageContains(
	"Resource exhausted",
	"RESOURCE_EXHAUSTED",
	"429",
	"rate limit",
	"Overloaded",
	"503",
	"quota exceeded",
	"Internal error",
	"server error",
)
