/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package promptbuilder

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"maps"
	"sort"

	"gopkg.in/yaml.v3"
)

// literal only accepts untyped string constants from callers outside this package.
type literal string

// renderer produces the text substituted for a placeholder.
type renderer func() (string, error)

// Prompt is an immutable template with named placeholders.
type Prompt struct {
	template string
	bound    map[string]renderer // nil entry means unbound
}

// New parses template and records its placeholders.
func New(template literal) (*Prompt, error) {
	bound := make(map[string]renderer)
	if _, err := substitute(string(template), func(name string) (string, error) {
		bound[name] = nil
		return "", nil
	}); err != nil {
		return nil, err
	}
	return &Prompt{template: string(template), bound: bound}, nil
}

// MustNew is New for package-level templates; it panics on a malformed template.
func MustNew(template literal) *Prompt {
	p, err := New(template)
	if err != nil {
		panic(err)
	}
	return p
}

// Placeholders returns the placeholder names in sorted order.
func (p *Prompt) Placeholders() []string {
	names := make([]string, 0, len(p.bound))
	for name := range p.bound {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (p *Prompt) bind(name string, r renderer) (*Prompt, error) {
	current, ok := p.bound[name]
	if !ok {
		return nil, fmt.Errorf("binding %q not found in template", name)
	}
	if current != nil {
		return nil, fmt.Errorf("binding %q already bound", name)
	}
	next := &Prompt{template: p.template, bound: maps.Clone(p.bound)}
	next.bound[name] = r
	return next, nil
}

// BindLiteral binds a developer-supplied constant.
func (p *Prompt) BindLiteral(name string, value literal) (*Prompt, error) {
	return p.bind(name, func() (string, error) { return string(value), nil })
}

// BindXML binds data encoded as indented XML.
func (p *Prompt) BindXML(name string, data any) (*Prompt, error) {
	return p.bind(name, func() (string, error) {
		b, err := xml.MarshalIndent(data, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to marshal XML for %q: %w", name, err)
		}
		return string(b), nil
	})
}

// BindJSON binds data encoded as indented JSON.
func (p *Prompt) BindJSON(name string, data any) (*Prompt, error) {
	return p.bind(name, func() (string, error) {
		b, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to marshal JSON for %q: %w", name, err)
		}
		return string(b), nil
	})
}

// BindYAML binds data encoded as YAML.
func (p *Prompt) BindYAML(name string, data any) (*Prompt, error) {
	return p.bind(name, func() (string, error) {
		b, err := yaml.Marshal(data)
		if err != nil {
			return "", fmt.Errorf("failed to marshal YAML for %q: %w", name, err)
		}
		return string(b), nil
	})
}

// Build renders the prompt. Every placeholder must be bound.
func (p *Prompt) Build() (string, error) {
	values := make(map[string]string, len(p.bound))
	for _, name := range p.Placeholders() {
		r := p.bound[name]
		if r == nil {
			return "", fmt.Errorf("unbound placeholder: %s", name)
		}
		v, err := r()
		if err != nil {
			return "", err
		}
		values[name] = v
	}
	return substitute(p.template, func(name string) (string, error) {
		return values[name], nil
	})
}
