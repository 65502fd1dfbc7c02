/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Command repotools-mcp serves the repository tools over MCP on stdio.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"chainguard.dev/repochat/mcpserver"
	"chainguard.dev/repochat/repository"
	"github.com/chainguard-dev/clog"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sethvargo/go-envconfig"
)

// version is set at build time via ldflags.
var version = "dev"

type config struct {
	Repository repository.Config
	LogLevel   slog.Level `env:"LOG_LEVEL,default=info"`
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var cfg config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		clog.FatalContextf(ctx, "processing config: %v", err)
	}

	// stdout carries the protocol, so logs go to stderr.
	ctx = clog.WithLogger(ctx, clog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})))

	reg, err := repository.NewRegistry(ctx, cfg.Repository)
	if err != nil {
		clog.FatalContextf(ctx, "creating tools: %v", err)
	}
	s, err := mcpserver.New(reg, version)
	if err != nil {
		clog.FatalContextf(ctx, "creating MCP server: %v", err)
	}

	clog.InfoContextf(ctx, "Serving %d tools over stdio from cache %s", len(reg.Definitions()), cfg.Repository.CacheDir)
	stdio := server.NewStdioServer(s)
	if err := stdio.Listen(ctx, os.Stdin, os.Stdout); err != nil && ctx.Err() == nil {
		clog.FatalContextf(ctx, "server failed: %v", err)
	}
}
