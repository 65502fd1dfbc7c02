/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package conversation

import (
	"errors"
	"fmt"
	"maps"
)

// Log is an append-only sequence of messages.
//
// A Log is owned by a single run and is not safe for concurrent use.
type Log struct {
	messages []Message
	// pending holds tool call IDs requested by an assistant turn that
	// have not been answered by a tool-result message yet.
	pending map[string]struct{}
}

// NewLog returns a Log seeded with copies of prior. The prior messages are
// validated with the same rules as Append.
func NewLog(prior ...Message) (*Log, error) {
	l := &Log{pending: make(map[string]struct{})}
	if err := l.Append(prior...); err != nil {
		return nil, err
	}
	return l, nil
}

// Append validates and appends copies of msgs. Either every message is
// appended or none is.
func (l *Log) Append(msgs ...Message) error {
	pending := maps.Clone(l.pending)
	if pending == nil {
		pending = make(map[string]struct{})
	}

	for i, m := range msgs {
		if !m.Role.Valid() {
			return fmt.Errorf("message %d: unknown role %q", i, m.Role)
		}
		if m.ID == "" {
			return fmt.Errorf("message %d: missing id", i)
		}
		switch m.Role {
		case RoleAssistant:
			for _, c := range m.ToolCalls {
				if c.ID == "" {
					return fmt.Errorf("message %d: tool call %q has no id", i, c.Name)
				}
				pending[c.ID] = struct{}{}
			}
		case RoleTool:
			if m.ToolCallID == "" {
				return fmt.Errorf("message %d: tool result without tool_call_id", i)
			}
			if _, ok := pending[m.ToolCallID]; !ok {
				return fmt.Errorf("message %d: tool result %q does not match a pending tool call", i, m.ToolCallID)
			}
			delete(pending, m.ToolCallID)
		default:
			if len(m.ToolCalls) > 0 || m.ToolCallID != "" {
				return fmt.Errorf("message %d: role %q cannot carry tool calls", i, m.Role)
			}
		}
	}

	for _, m := range msgs {
		l.messages = append(l.messages, m.Clone())
	}
	l.pending = pending
	return nil
}

// Messages returns a copy of the log contents.
func (l *Log) Messages() []Message {
	out := make([]Message, len(l.messages))
	for i, m := range l.messages {
		out[i] = m.Clone()
	}
	return out
}

// Len returns the number of messages in the log.
func (l *Log) Len() int {
	return len(l.messages)
}

// ErrPendingToolCalls is returned by Settled when an assistant turn still
// waits for tool results.
var ErrPendingToolCalls = errors.New("conversation has unanswered tool calls")

// Settled returns ErrPendingToolCalls when a requested tool call has no
// result yet.
func (l *Log) Settled() error {
	if len(l.pending) > 0 {
		return ErrPendingToolCalls
	}
	return nil
}
