/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package conversation

import (
	"encoding/json"
	"encoding/xml"
)

// Transcript renders a message history for inclusion in a prompt. It is
// bound with promptbuilder's BindXML.
type Transcript struct {
	XMLName  xml.Name         `xml:"conversation"`
	Messages []TranscriptLine `xml:"message"`
}

// TranscriptLine is one message in a Transcript.
type TranscriptLine struct {
	Role       Role                `xml:"role,attr"`
	ToolCallID string              `xml:"tool_call_id,attr,omitempty"`
	Content    string              `xml:"content,omitempty"`
	ToolCalls  []TranscriptToolUse `xml:"tool_call"`
}

// TranscriptToolUse is a tool call with its arguments rendered as JSON.
type TranscriptToolUse struct {
	ID   string `xml:"id,attr"`
	Name string `xml:"name,attr"`
	Args string `xml:",chardata"`
}

// NewTranscript converts msgs into a Transcript.
func NewTranscript(msgs []Message) Transcript {
	t := Transcript{Messages: make([]TranscriptLine, 0, len(msgs))}
	for _, m := range msgs {
		line := TranscriptLine{Role: m.Role, ToolCallID: m.ToolCallID, Content: m.Content}
		for _, c := range m.ToolCalls {
			args, err := json.Marshal(c.Args)
			if err != nil {
				args = []byte("{}")
			}
			line.ToolCalls = append(line.ToolCalls, TranscriptToolUse{ID: c.ID, Name: c.Name, Args: string(args)})
		}
		t.Messages = append(t.Messages, line)
	}
	return t
}
