/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package promptbuilder

import (
	"encoding/xml"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		template literal
		want     []string
		wantErr  bool
	}{{
		name:     "no placeholders",
		template: "plain text",
		want:     []string{},
	}, {
		name:     "repeated placeholder",
		template: "{{a}} and {{ b }} and {{a}}",
		want:     []string{"a", "b"},
	}, {
		name:     "unclosed",
		template: "hello {{name",
		wantErr:  true,
	}, {
		name:     "invalid identifier",
		template: "{{1abc}}",
		wantErr:  true,
	}, {
		name:     "empty identifier",
		template: "{{ }}",
		wantErr:  true,
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New(tt.template)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if diff := cmp.Diff(tt.want, p.Placeholders()); diff != "" {
				t.Errorf("Placeholders() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBuild(t *testing.T) {
	type objective struct {
		XMLName xml.Name `xml:"objective"`
		Text    string   `xml:",chardata"`
	}

	p := MustNew("Task: {{task}}\nPlan:\n{{plan}}\nData: {{data}}\nNote: {{note}}")
	p, err := p.BindXML("task", objective{Text: "read <README> & {{note}}"})
	if err != nil {
		t.Fatalf("BindXML: %v", err)
	}
	if p, err = p.BindYAML("plan", map[string][]string{"steps": {"one", "two"}}); err != nil {
		t.Fatalf("BindYAML: %v", err)
	}
	if p, err = p.BindJSON("data", []int{1, 2}); err != nil {
		t.Fatalf("BindJSON: %v", err)
	}
	if p, err = p.BindLiteral("note", "be brief"); err != nil {
		t.Fatalf("BindLiteral: %v", err)
	}

	got, err := p.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	want := "Task: <objective>read &lt;README&gt; &amp; {{note}}</objective>\n" +
		"Plan:\nsteps:\n    - one\n    - two\n\n" +
		"Data: [\n  1,\n  2\n]\n" +
		"Note: be brief"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Build() mismatch (-want +got):\n%s", diff)
	}
}

func TestBindErrors(t *testing.T) {
	p := MustNew("{{a}}")

	if _, err := p.BindLiteral("missing", "x"); err == nil {
		t.Error("BindLiteral(missing) = nil error, want error")
	}
	bound, err := p.BindLiteral("a", "x")
	if err != nil {
		t.Fatalf("BindLiteral: %v", err)
	}
	if _, err := bound.BindLiteral("a", "y"); err == nil {
		t.Error("second BindLiteral = nil error, want error")
	}
	if _, err := p.Build(); err == nil || !strings.Contains(err.Error(), "unbound placeholder: a") {
		t.Errorf("Build() on original = %v, want unbound error", err)
	}
	if got, err := bound.Build(); err != nil || got != "x" {
		t.Errorf("Build() = %q, %v", got, err)
	}
}

func TestBindJSONError(t *testing.T) {
	p := MustNew("{{a}}")
	p, err := p.BindJSON("a", func() {})
	if err != nil {
		t.Fatalf("BindJSON: %v", err)
	}
	if _, err := p.Build(); err == nil {
		t.Error("Build() with unmarshalable value = nil error, want error")
	}
}
