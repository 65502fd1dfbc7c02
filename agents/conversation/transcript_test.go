/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package conversation_test

import (
	"encoding/xml"
	"strings"
	"testing"

	"chainguard.dev/repochat/agents/conversation"
)

func TestTranscriptXML(t *testing.T) {
	call := conversation.ToolCall{ID: "c1", Name: "get_repo_structure", Args: map[string]any{"repo_name": "org/repo"}}
	tr := conversation.NewTranscript([]conversation.Message{
		conversation.User("What <files> exist?"),
		conversation.AssistantToolCalls("", call),
		conversation.ToolResult("c1", "src/"),
	})
	if len(tr.Messages) != 3 {
		t.Fatalf("Messages = %d, want 3", len(tr.Messages))
	}

	b, err := xml.MarshalIndent(tr, "", "  ")
	if err != nil {
		t.Fatalf("MarshalIndent: %v", err)
	}
	got := string(b)
	for _, want := range []string{
		`<conversation>`,
		`<message role="user">`,
		`What &lt;files&gt; exist?`,
		`<tool_call id="c1" name="get_repo_structure">{&#34;repo_name&#34;:&#34;org/repo&#34;}</tool_call>`,
		`<message role="tool" tool_call_id="c1">`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("transcript missing %q:\n%s", want, got)
		}
	}
}
