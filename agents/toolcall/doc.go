/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

/*
Package toolcall defines provider-independent tools and the Registry that
dispatches model tool calls to them.

A Tool is declared once, with a Definition the model providers translate into
their own schema types, and a Handler that returns any value. The Registry
renders every result as text: strings pass through and everything else is
JSON-encoded. Failures never escape as Go errors into the conversation;
callers render them with ErrorText so the model can read them and react.

	reg, err := toolcall.NewRegistry(toolcall.RepoTools(cb)...)
	text, err := reg.Invoke(ctx, call, trace)
	if err != nil {
		text = toolcall.ErrorText(err) // *ToolNotFoundError or *ExecutionError
	}
*/
package toolcall
