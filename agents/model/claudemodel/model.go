/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package claudemodel

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
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/chainguard-dev/clog"
)

type claudeModel struct {
	client      anthropic.Client
	name        string
	maxTokens   int64
	temperature float64
	retryConfig retry.Config
	metrics     *metrics.GenAI
}

var _ model.Model = (*claudeModel)(nil)

// New returns a model.Model backed by client.
func New(client anthropic.Client, opts ...Option) (model.Model, error) {
	m := &claudeModel{
		client:      client,
		name:        "claude-sonnet-4-5",
		maxTokens:   8192,
		temperature: 0.1,
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

func (m *claudeModel) Name() string { return m.name }

func (m *claudeModel) Generate(ctx context.Context, req *model.Request) (*model.Response, error) {
	params, err := m.toParams(req)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	message, err := retry.Do(ctx, m.retryConfig, "stream_message", isRetryable, func() (anthropic.Message, error) {
		stream := m.client.Messages.NewStreaming(ctx, params)
		defer stream.Close()
		var msg anthropic.Message
		for stream.Next() {
			if err := msg.Accumulate(stream.Current()); err != nil {
				return msg, fmt.Errorf("failed to accumulate event: %w", err)
			}
		}
		return msg, stream.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to stream Claude response: %w", err)
	}
	m.metrics.RecordLatency(ctx, m.name, time.Since(start))
	if message.Usage.InputTokens > 0 || message.Usage.OutputTokens > 0 {
		m.metrics.RecordTokens(ctx, m.name, message.Usage.InputTokens, message.Usage.OutputTokens)
	}

	resp, err := fromMessage(message)
	if err != nil {
		return nil, err
	}
	clog.FromContext(ctx).With("model", m.name).
		With("tool_calls", len(resp.ToolCalls)).
		With("stop_reason", string(message.StopReason)).
		Debug("Claude turn complete")
	return resp, nil
}

func (m *claudeModel) toParams(req *model.Request) (anthropic.MessageNewParams, error) {
	msgs, err := toMessages(req.Messages)
	if err != nil {
		return anthropic.MessageNewParams{}, err
	}
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(m.name),
		MaxTokens:   m.maxTokens,
		Messages:    msgs,
		Temperature: anthropic.Float(m.temperature),
	}
	if system := model.SystemText(req); system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}
	if req.ToolChoice == model.ToolChoiceNone || len(req.Tools) == 0 {
		return params, nil
	}
	for _, def := range req.Tools {
		schema := def.InputSchema()
		params.Tools = append(params.Tools, anthropic.ToolUnionParam{
			OfTool: &anthropic.ToolParam{
				Name:        def.Name,
				Description: anthropic.String(def.Description),
				InputSchema: anthropic.ToolInputSchemaParam{
					Type:       "object",
					Properties: schema["properties"],
					Required:   schema["required"].([]string),
				},
			},
		})
	}
	if req.ToolChoice == model.ToolChoiceRequired {
		params.ToolChoice = anthropic.ToolChoiceUnionParam{OfAny: &anthropic.ToolChoiceAnyParam{}}
	}
	return params, nil
}

// toMessages converts the log to Anthropic params. Tool results travel in
// user turns, so consecutive results are merged into one user message.
func toMessages(msgs []conversation.Message) ([]anthropic.MessageParam, error) {
	var out []anthropic.MessageParam
	appendUser := func(block anthropic.ContentBlockParamUnion) {
		if n := len(out); n > 0 && out[n-1].Role == anthropic.MessageParamRoleUser {
			out[n-1].Content = append(out[n-1].Content, block)
			return
		}
		out = append(out, anthropic.MessageParam{
			Role:    anthropic.MessageParamRoleUser,
			Content: []anthropic.ContentBlockParamUnion{block},
		})
	}

	for _, msg := range msgs {
		switch msg.Role {
		case conversation.RoleSystem:
			// Carried in params.System.
		case conversation.RoleUser:
			appendUser(anthropic.NewTextBlock(msg.Content))
		case conversation.RoleTool:
			appendUser(anthropic.ContentBlockParamUnion{
				OfToolResult: &anthropic.ToolResultBlockParam{
					ToolUseID: msg.ToolCallID,
					Content: []anthropic.ToolResultBlockParamContentUnion{{
						OfText: &anthropic.TextBlockParam{Text: msg.Content},
					}},
				},
			})
		case conversation.RoleAssistant:
			var blocks []anthropic.ContentBlockParamUnion
			if msg.Content != "" {
				blocks = append(blocks, anthropic.NewTextBlock(msg.Content))
			}
			for _, call := range msg.ToolCalls {
				args := call.Args
				if args == nil {
					args = map[string]any{}
				}
				blocks = append(blocks, anthropic.ContentBlockParamUnion{
					OfToolUse: &anthropic.ToolUseBlockParam{ID: call.ID, Name: call.Name, Input: args},
				})
			}
			if len(blocks) == 0 {
				continue
			}
			out = append(out, anthropic.MessageParam{Role: anthropic.MessageParamRoleAssistant, Content: blocks})
		default:
			return nil, fmt.Errorf("unsupported role %q", msg.Role)
		}
	}
	return out, nil
}

func fromMessage(message anthropic.Message) (*model.Response, error) {
	resp := &model.Response{
		Usage: model.Usage{
			InputTokens:  message.Usage.InputTokens,
			OutputTokens: message.Usage.OutputTokens,
		},
	}
	for _, content := range message.Content {
		switch content.Type {
		case "text":
			resp.Text += content.Text
		case "tool_use":
			var args map[string]any
			if len(content.Input) > 0 {
				if err := json.Unmarshal(content.Input, &args); err != nil {
					return nil, fmt.Errorf("decoding input for tool %q: %w", content.Name, err)
				}
			}
			resp.ToolCalls = append(resp.ToolCalls, conversation.ToolCall{
				ID:   content.ID,
				Name: content.Name,
				Args: args,
			})
		}
	}
	return resp, nil
}

// isRetryable matches rate limit, overloaded and transient gateway errors.
var isRetryable = retry.StatusCodes(statusCode, 429, 503, 504, 529)

func statusCode(err error) (int, bool) {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode, true
	}
	return 0, false
}
