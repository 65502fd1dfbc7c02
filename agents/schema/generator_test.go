/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package schema_test

import (
	"encoding/json"
	"testing"

	"chainguard.dev/repochat/agents/plan"
	"chainguard.dev/repochat/agents/schema"
	"chainguard.dev/repochat/agents/toolcall"
	"github.com/google/go-cmp/cmp"
)

func TestReflect(t *testing.T) {
	type nested struct {
		Value string `json:"value" jsonschema:"description=Nested value"`
	}
	type sample struct {
		Name   string  `json:"name" jsonschema:"description=Name,required"`
		Count  int     `json:"count,omitempty"`
		Nested *nested `json:"nested,omitempty"`
	}

	s := schema.Reflect(&sample{})
	if s == nil {
		t.Fatal("expected schema")
	}
	if len(s.Required) != 1 || s.Required[0] != "name" {
		t.Fatalf("unexpected required: %#v", s.Required)
	}

	name, ok := s.Properties.Get("name")
	if !ok {
		t.Fatal("missing name property")
	}
	if name.Description != "Name" {
		t.Fatalf("unexpected description: %q", name.Description)
	}

	nestedSchema, ok := s.Properties.Get("nested")
	if !ok {
		t.Fatal("missing nested property")
	}
	if _, ok := nestedSchema.Properties.Get("value"); !ok {
		t.Fatal("nested type was not inlined")
	}

	if _, err := json.Marshal(s); err != nil {
		t.Fatalf("marshal schema: %v", err)
	}
}

func TestParametersFor(t *testing.T) {
	type args struct {
		Query string   `json:"query" jsonschema:"required,description=What to look for"`
		Limit int      `json:"limit,omitempty" jsonschema:"description=Maximum results"`
		Tags  []string `json:"tags,omitempty"`
	}

	got := schema.ParametersFor[args]()
	want := []toolcall.Parameter{
		{Name: "query", Type: "string", Description: "What to look for", Required: true},
		{Name: "limit", Type: "integer", Description: "Maximum results"},
		{Name: "tags", Type: "array", Items: "string"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParametersFor() (-want +got):\n%s", diff)
	}
}

func TestDefinitionForPlan(t *testing.T) {
	def := schema.Definition[plan.Plan]("plan", "Submit a plan.")
	want := toolcall.Definition{
		Name:        "plan",
		Description: "Submit a plan.",
		Parameters: []toolcall.Parameter{{
			Name:        "steps",
			Type:        "array",
			Items:       "string",
			Description: "Ordered steps to follow. Each step must be self-contained.",
			Required:    true,
		}},
	}
	if diff := cmp.Diff(want, def); diff != "" {
		t.Errorf("Definition() (-want +got):\n%s", diff)
	}

	resp := schema.ParametersFor[plan.Response]()
	if len(resp) != 1 || resp[0].Name != "response" || !resp[0].Required {
		t.Errorf("ParametersFor[Response]() = %+v", resp)
	}
}
