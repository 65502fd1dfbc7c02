/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package toolcall

import (
	"encoding/json"
	"fmt"
)

// ToolNotFoundError reports a call to a tool that is not registered.
type ToolNotFoundError struct {
	Name string
}

func (e *ToolNotFoundError) Error() string {
	return fmt.Sprintf("unknown tool: %q", e.Name)
}

// ExecutionError reports a tool whose handler failed.
type ExecutionError struct {
	Tool string
	Err  error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("tool %s failed: %v", e.Tool, e.Err)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// ErrorText renders err as the content of a tool-result message.
func ErrorText(err error) string {
	b, mErr := json.Marshal(map[string]string{"error": err.Error()})
	if mErr != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return string(b)
}
