/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package schema derives tool parameter definitions from Go struct tags, so
// the structured outputs the agents request stay in sync with the types they
// decode into.
package schema

import (
	"slices"

	"chainguard.dev/repochat/agents/toolcall"
	"github.com/invopop/jsonschema"
)

// Generator wraps jsonschema.Reflector with the settings tool schemas need.
type Generator struct {
	reflector jsonschema.Reflector
}

// NewGenerator constructs a generator that inlines nested types and reads
// required fields from jsonschema tags.
func NewGenerator() *Generator {
	return &Generator{
		reflector: jsonschema.Reflector{
			RequiredFromJSONSchemaTags: true,
			ExpandedStruct:             true,
			DoNotReference:             true,
		},
	}
}

// Reflect returns the JSON schema for v.
func (g *Generator) Reflect(v any) *jsonschema.Schema {
	return g.reflector.Reflect(v)
}

// Reflect derives the JSON schema for v using a default generator.
func Reflect(v any) *jsonschema.Schema {
	return NewGenerator().Reflect(v)
}

// ReflectType allocates a zero value of T and reflects it to a schema.
func ReflectType[T any]() *jsonschema.Schema {
	var zero T
	return Reflect(&zero)
}

// ParametersFor flattens the top-level properties of T into tool parameters,
// preserving field order.
func ParametersFor[T any]() []toolcall.Parameter {
	s := ReflectType[T]()
	if s == nil || s.Properties == nil {
		return nil
	}
	var out []toolcall.Parameter
	for pair := s.Properties.Oldest(); pair != nil; pair = pair.Next() {
		p := toolcall.Parameter{
			Name:        pair.Key,
			Type:        pair.Value.Type,
			Description: pair.Value.Description,
			Required:    slices.Contains(s.Required, pair.Key),
		}
		if p.Type == "array" && pair.Value.Items != nil {
			p.Items = pair.Value.Items.Type
		}
		out = append(out, p)
	}
	return out
}

// Definition builds a tool definition whose parameters mirror T.
func Definition[T any](name, description string) toolcall.Definition {
	return toolcall.Definition{
		Name:        name,
		Description: description,
		Parameters:  ParametersFor[T](),
	}
}
