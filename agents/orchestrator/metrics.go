/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package orchestrator

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	runsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "repochat_runs_total",
			Help: "Total number of orchestrator runs by variant and outcome",
		},
		[]string{"variant", "outcome"},
	)

	runIterations = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "repochat_run_iterations",
			Help:    "Steps executed per run",
			Buckets: prometheus.LinearBuckets(1, 1, 10),
		},
	)

	stepsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "repochat_steps_total",
			Help: "Total number of plan steps executed",
		},
	)
)

func outcome(err error) string {
	var (
		planning *PlanningError
		step     *StepError
		final    *FinalizationError
	)
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	case errors.As(err, &planning):
		return "planning_error"
	case errors.As(err, &step):
		return "step_error"
	case errors.As(err, &final):
		return "finalization_error"
	}
	return "error"
}
