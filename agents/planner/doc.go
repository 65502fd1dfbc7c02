/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package planner implements the model-backed Planner and Replanner.
//
// Both request structured output by forcing a tool call: the Planner offers
// a single "plan" tool, the Replanner offers "plan" and "respond". A model
// that answers in text instead is parsed for an embedded JSON object with
// the same shape. Output that fits neither form is an error.
package planner
