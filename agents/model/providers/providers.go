/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package providers wires the concrete model implementations into a
// model.Factory from a set of credentials.
package providers

import (
	"context"
	"errors"
	"fmt"

	"chainguard.dev/repochat/agents/model"
	"chainguard.dev/repochat/agents/model/claudemodel"
	"chainguard.dev/repochat/agents/model/googlemodel"
	"chainguard.dev/repochat/agents/model/openaimodel"
	"github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/vertex"
	"github.com/openai/openai-go"
	openaioption "github.com/openai/openai-go/option"
	"google.golang.org/genai"
)

// Credentials selects how each provider authenticates. Claude and Gemini
// fall back to Vertex AI when no API key is set and a project is.
type Credentials struct {
	AnthropicAPIKey string
	OpenAIAPIKey    string
	GeminiAPIKey    string
	GCPProject      string
	GCPRegion       string
}

// Factory returns a model.Factory bound to creds.
func Factory(creds Credentials) model.Factory {
	return model.Factory{
		model.ProviderAnthropic: func(ctx context.Context, name string) (model.Model, error) {
			var opt anthropicoption.RequestOption
			switch {
			case creds.AnthropicAPIKey != "":
				opt = anthropicoption.WithAPIKey(creds.AnthropicAPIKey)
			case creds.GCPProject != "":
				opt = vertex.WithGoogleAuth(ctx, creds.GCPRegion, creds.GCPProject)
			default:
				return nil, errors.New("set ANTHROPIC_API_KEY or GCP_PROJECT_ID to use Claude models")
			}
			return claudemodel.New(anthropic.NewClient(opt), claudemodel.WithModel(name))
		},
		model.ProviderGoogle: func(ctx context.Context, name string) (model.Model, error) {
			cfg := &genai.ClientConfig{}
			switch {
			case creds.GeminiAPIKey != "":
				cfg.APIKey = creds.GeminiAPIKey
				cfg.Backend = genai.BackendGeminiAPI
			case creds.GCPProject != "":
				cfg.Project = creds.GCPProject
				cfg.Location = creds.GCPRegion
				cfg.Backend = genai.BackendVertexAI
			default:
				return nil, errors.New("set GEMINI_API_KEY or GCP_PROJECT_ID to use Gemini models")
			}
			client, err := genai.NewClient(ctx, cfg)
			if err != nil {
				return nil, fmt.Errorf("creating Google AI client: %w", err)
			}
			return googlemodel.New(client, googlemodel.WithModel(name))
		},
		model.ProviderOpenAI: func(_ context.Context, name string) (model.Model, error) {
			if creds.OpenAIAPIKey == "" {
				return nil, errors.New("set OPENAI_API_KEY to use OpenAI models")
			}
			client := openai.NewClient(openaioption.WithAPIKey(creds.OpenAIAPIKey))
			return openaimodel.New(client, openaimodel.WithModel(name))
		},
	}
}

// New builds the named model with creds.
func New(ctx context.Context, name string, creds Credentials) (model.Model, error) {
	return Factory(creds).New(ctx, name)
}
