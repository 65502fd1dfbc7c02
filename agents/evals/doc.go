/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package evals checks agent traces against expectations about tool use.
//
// Checks run as each stage completes. Install them with Tracer and route
// failures to an Observer, for example a test:
//
//	ctx = agenttrace.WithTracer(ctx, evals.Tracer(testevals.New(t),
//		evals.ForStage("execute", evals.OnlyToolCalls("get_repo_structure")),
//		evals.NoErrors(),
//	))
package evals
