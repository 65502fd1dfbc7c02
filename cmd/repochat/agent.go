/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"context"
	"fmt"

	"chainguard.dev/repochat/agents/finalizer"
	"chainguard.dev/repochat/agents/model"
	"chainguard.dev/repochat/agents/model/providers"
	"chainguard.dev/repochat/agents/orchestrator"
	"chainguard.dev/repochat/agents/planner"
	"chainguard.dev/repochat/agents/stepexecutor"
	"chainguard.dev/repochat/agents/summarizer"
	"chainguard.dev/repochat/agents/toolcall"
)

// models builds each named model once.
type models struct {
	factory  model.Factory
	fallback string
	built    map[string]model.Model
}

func (m *models) get(ctx context.Context, name string) (model.Model, error) {
	if name == "" {
		name = m.fallback
	}
	if mdl, ok := m.built[name]; ok {
		return mdl, nil
	}
	mdl, err := m.factory.New(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("creating model %s: %w", name, err)
	}
	m.built[name] = mdl
	return mdl, nil
}

func newOrchestrator(ctx context.Context, cfg *config, tools toolcall.Invoker) (*orchestrator.Orchestrator, error) {
	variant, err := orchestrator.ParseVariant(cfg.Variant)
	if err != nil {
		return nil, err
	}
	ms := &models{
		factory:  providers.Factory(cfg.credentials()),
		fallback: cfg.Model,
		built:    map[string]model.Model{},
	}

	execModel, err := ms.get(ctx, cfg.ExecutorModel)
	if err != nil {
		return nil, err
	}
	execOpts := []stepexecutor.Option{stepexecutor.WithMaxToolRounds(cfg.MaxToolRounds)}
	if cfg.SummarizeHistory {
		sumModel, err := ms.get(ctx, cfg.SummarizerModel)
		if err != nil {
			return nil, err
		}
		sum, err := summarizer.New(sumModel)
		if err != nil {
			return nil, err
		}
		execOpts = append(execOpts, stepexecutor.WithSummarizer(sum))
	}
	executor, err := stepexecutor.New(execModel, tools, execOpts...)
	if err != nil {
		return nil, err
	}

	opts := []orchestrator.Option{
		orchestrator.WithVariant(variant),
		orchestrator.WithMaxIterations(cfg.MaxIterations),
	}
	if variant == orchestrator.React {
		return orchestrator.New(nil, executor, nil, nil, opts...)
	}

	planModel, err := ms.get(ctx, cfg.PlannerModel)
	if err != nil {
		return nil, err
	}
	p, err := planner.NewPlanner(planModel, planner.WithTools(tools.Definitions()))
	if err != nil {
		return nil, err
	}
	replanModel, err := ms.get(ctx, cfg.ReplannerModel)
	if err != nil {
		return nil, err
	}
	rp, err := planner.NewReplanner(replanModel, planner.WithTools(tools.Definitions()))
	if err != nil {
		return nil, err
	}
	finalModel, err := ms.get(ctx, cfg.FinalizerModel)
	if err != nil {
		return nil, err
	}
	fin, err := finalizer.New(finalModel)
	if err != nil {
		return nil, err
	}
	return orchestrator.New(p, executor, rp, fin, opts...)
}
