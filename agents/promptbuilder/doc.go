/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

/*
Package promptbuilder assembles model prompts from developer-written
templates and runtime data.

Templates contain `{{name}}` placeholders. Template text and literal bindings
must be untyped string constants, so runtime input cannot become instructions
by accident; runtime data is bound through an encoder (XML, JSON or YAML)
which escapes it. Substitution is single-pass: a bound value that itself
contains `{{x}}` is not expanded again.

	p := promptbuilder.MustNew(`Objective: {{objective}}`)
	p, err := p.BindXML("objective", struct {
		XMLName xml.Name `xml:"objective"`
		Text    string   `xml:",chardata"`
	}{Text: userInput})
	text, err := p.Build()

Every Bind method returns a new Prompt, so a package-level template can be
shared across concurrent runs.
*/
package promptbuilder
