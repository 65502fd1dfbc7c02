/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Command repochat answers questions about GitHub repositories in an
// interactive session. Each question is planned, executed step by step
// with the repository tools and answered; the conversation carries over
// to the next question.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chainguard.dev/repochat/agents/model/providers"
	"chainguard.dev/repochat/repository"
	"github.com/chainguard-dev/clog"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sethvargo/go-envconfig"
)

type config struct {
	Model           string `env:"MODEL,default=claude-sonnet-4-5"`
	PlannerModel    string `env:"PLANNER_MODEL"`
	ReplannerModel  string `env:"REPLANNER_MODEL"`
	ExecutorModel   string `env:"EXECUTOR_MODEL"`
	FinalizerModel  string `env:"FINALIZER_MODEL"`
	SummarizerModel string `env:"SUMMARIZER_MODEL"`

	Variant          string `env:"AGENT_VARIANT,default=plan-execute"`
	MaxIterations    int    `env:"MAX_ITERATIONS,default=10"`
	MaxToolRounds    int    `env:"MAX_TOOL_ROUNDS,default=20"`
	SummarizeHistory bool   `env:"SUMMARIZE_HISTORY,default=false"`

	AnthropicAPIKey string `env:"ANTHROPIC_API_KEY"`
	OpenAIAPIKey    string `env:"OPENAI_API_KEY"`
	GeminiAPIKey    string `env:"GEMINI_API_KEY"`
	GCPProjectID    string `env:"GCP_PROJECT_ID"`
	GCPRegion       string `env:"GCP_REGION,default=us-east5"`

	Repository repository.Config

	MetricsPort int        `env:"METRICS_PORT,default=0"`
	LogLevel    slog.Level `env:"LOG_LEVEL,default=warn"`
	Verbose     bool       `env:"VERBOSE,default=false"`
}

func (c *config) credentials() providers.Credentials {
	return providers.Credentials{
		AnthropicAPIKey: c.AnthropicAPIKey,
		OpenAIAPIKey:    c.OpenAIAPIKey,
		GeminiAPIKey:    c.GeminiAPIKey,
		GCPProject:      c.GCPProjectID,
		GCPRegion:       c.GCPRegion,
	}
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var cfg config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		clog.FatalContextf(ctx, "processing config: %v", err)
	}
	ctx = clog.WithLogger(ctx, clog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})))

	if cfg.MetricsPort > 0 {
		stop := serveMetrics(ctx, cfg.MetricsPort)
		defer stop()
	}

	reg, err := repository.NewRegistry(ctx, cfg.Repository)
	if err != nil {
		clog.FatalContextf(ctx, "creating tools: %v", err)
	}
	orch, err := newOrchestrator(ctx, &cfg, reg)
	if err != nil {
		clog.FatalContextf(ctx, "creating agent: %v", err)
	}

	clog.InfoContextf(ctx, "Starting %s session with model %s", orch.Variant(), cfg.Model)
	s := newSession(orch, os.Stdin, os.Stdout, os.Stderr, cfg.Verbose)
	if err := s.Loop(ctx); err != nil && !errors.Is(err, context.Canceled) {
		clog.FatalContextf(ctx, "session failed: %v", err)
	}
}

// serveMetrics exposes the prometheus registry until the returned func runs.
func serveMetrics(ctx context.Context, port int) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			clog.ErrorContextf(ctx, "metrics server failed: %v", err)
		}
	}()
	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}
}
