/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package testevals adapts a testing.TB into an evals.Observer, so trace
// checks fail the test that installed them.
package testevals
