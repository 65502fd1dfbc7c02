/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package stepexecutor resolves one plan step with a tool-calling sub-agent.
//
// The sub-agent receives the step framed against the full plan and the tools
// of a toolcall.Invoker. Each turn that requests tools is answered by
// invoking them and feeding their results back; a turn that returns text
// alone ends the step. Tool failures are returned to the sub-agent as
// {"error": ...} results rather than ending the step. A failed model call
// does end it, and Execute returns the error.
package stepexecutor
