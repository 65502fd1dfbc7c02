/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package openaimodel

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"chainguard.dev/repochat/agents/conversation"
	"chainguard.dev/repochat/agents/metrics"
	"chainguard.dev/repochat/agents/model"
	"chainguard.dev/repochat/agents/retry"
	"github.com/chainguard-dev/clog"
	"github.com/openai/openai-go"
)

type openaiModel struct {
	client      openai.Client
	name        string
	temperature *float64
	maxTokens   int64
	retryConfig retry.Config
	metrics     *metrics.GenAI
}

var _ model.Model = (*openaiModel)(nil)

// New returns a model.Model backed by client.
func New(client openai.Client, opts ...Option) (model.Model, error) {
	m := &openaiModel{
		client:      client,
		name:        "gpt-4o",
		maxTokens:   8192,
		retryConfig: retry.DefaultConfig(),
		metrics:     metrics.NewGenAI(metrics.MeterName),
	}
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}
	return m, nil
}

func (m *openaiModel) Name() string { return m.name }

func (m *openaiModel) Generate(ctx context.Context, req *model.Request) (*model.Response, error) {
	params, err := m.toParams(req)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	completion, err := retry.Do(ctx, m.retryConfig, "chat_completion", isRetryable, func() (*openai.ChatCompletion, error) {
		return m.client.Chat.Completions.New(ctx, params)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenAI completion: %w", err)
	}
	m.metrics.RecordLatency(ctx, m.name, time.Since(start))
	m.metrics.RecordTokens(ctx, m.name, completion.Usage.PromptTokens, completion.Usage.CompletionTokens)

	resp, err := fromCompletion(completion)
	if err != nil {
		return nil, err
	}
	clog.FromContext(ctx).With("model", m.name).
		With("tool_calls", len(resp.ToolCalls)).
		Debug("OpenAI turn complete")
	return resp, nil
}

func (m *openaiModel) toParams(req *model.Request) (openai.ChatCompletionNewParams, error) {
	params := openai.ChatCompletionNewParams{
		Model:               openai.ChatModel(m.name),
		MaxCompletionTokens: openai.Int(m.maxTokens),
	}
	if m.temperature != nil {
		params.Temperature = openai.Float(*m.temperature)
	}
	if req.System != "" {
		params.Messages = append(params.Messages, openai.SystemMessage(req.System))
	}
	for _, msg := range req.Messages {
		switch msg.Role {
		case conversation.RoleSystem:
			params.Messages = append(params.Messages, openai.SystemMessage(msg.Content))
		case conversation.RoleUser:
			params.Messages = append(params.Messages, openai.UserMessage(msg.Content))
		case conversation.RoleTool:
			params.Messages = append(params.Messages, openai.ToolMessage(msg.Content, msg.ToolCallID))
		case conversation.RoleAssistant:
			asst := openai.ChatCompletionAssistantMessageParam{}
			if msg.Content != "" {
				asst.Content.OfString = openai.String(msg.Content)
			}
			for _, call := range msg.ToolCalls {
				args, err := json.Marshal(call.Args)
				if err != nil {
					return params, fmt.Errorf("encoding arguments for tool %q: %w", call.Name, err)
				}
				asst.ToolCalls = append(asst.ToolCalls, openai.ChatCompletionMessageToolCallParam{
					ID: call.ID,
					Function: openai.ChatCompletionMessageToolCallFunctionParam{
						Name:      call.Name,
						Arguments: string(args),
					},
				})
			}
			params.Messages = append(params.Messages, openai.ChatCompletionMessageParamUnion{OfAssistant: &asst})
		default:
			return params, fmt.Errorf("unsupported role %q", msg.Role)
		}
	}

	if req.ToolChoice == model.ToolChoiceNone || len(req.Tools) == 0 {
		return params, nil
	}
	for _, def := range req.Tools {
		params.Tools = append(params.Tools, openai.ChatCompletionToolParam{
			Function: openai.FunctionDefinitionParam{
				Name:        def.Name,
				Description: openai.String(def.Description),
				Parameters:  openai.FunctionParameters(def.InputSchema()),
			},
		})
	}
	if req.ToolChoice == model.ToolChoiceRequired {
		params.ToolChoice = openai.ChatCompletionToolChoiceOptionUnionParam{OfAuto: openai.String("required")}
	}
	return params, nil
}

func fromCompletion(c *openai.ChatCompletion) (*model.Response, error) {
	if len(c.Choices) == 0 {
		return nil, errors.New("no choices in OpenAI completion")
	}
	msg := c.Choices[0].Message
	resp := &model.Response{
		Text: msg.Content,
		Usage: model.Usage{
			InputTokens:  c.Usage.PromptTokens,
			OutputTokens: c.Usage.CompletionTokens,
		},
	}
	for _, call := range msg.ToolCalls {
		var args map[string]any
		if call.Function.Arguments != "" {
			if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil {
				return nil, fmt.Errorf("decoding arguments for tool %q: %w", call.Function.Name, err)
			}
		}
		resp.ToolCalls = append(resp.ToolCalls, conversation.ToolCall{
			ID:   call.ID,
			Name: call.Function.Name,
			Args: args,
		})
	}
	return resp, nil
}

var isRetryable = retry.StatusCodes(func(err error) (int, bool) {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode, true
	}
	return 0, false
}, 429, 500, 502, 503, 504)
