/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package planner

import (
	"encoding/xml"

	"chainguard.dev/repochat/agents/plan"
	"chainguard.dev/repochat/agents/promptbuilder"
	"chainguard.dev/repochat/agents/toolcall"
)

const planGuidance = `- For the given objective, come up with a simple step by step plan based on the tools available to you.
- This plan should involve individual tasks, that if executed correctly will yield the correct answer. Do not add any superfluous steps.
- Be very explicit and detailed with the steps of the plan. Add all the necessary information in the step.
- The result of the final step should be the final answer. Make sure that each step has all the information needed - do not skip steps.`

var plannerSystem = promptbuilder.MustNew(`Planner Stage:
` + planGuidance + `

Submit the plan with the plan tool.

The executor can use these tools:
{{tools}}`)

var replannerSystem = promptbuilder.MustNew(`Replanner Stage:
Update the plan considering previous steps and conversation history. If no more steps are needed and you can return to the user, call the respond tool with the answer. Otherwise, call the plan tool with the remaining steps.
` + planGuidance + `
- If information is already available in the conversation history, do not call additional tools for the same purpose. Do not do any redundant tool calls.

The executor can use these tools:
{{tools}}`)

var replannerUser = promptbuilder.MustNew(`Your objective is this:
{{objective}}

Your original plan was this:
{{plan}}

You have currently done the following steps:
{{completed}}

Past conversation history:
{{history}}

Only add steps to the plan that still NEED to be done. Do not return previously done steps as part of the plan.`)

var plannerUser = promptbuilder.MustNew(`Past conversation history:
{{history}}

Task:
{{objective}}`)

type objectiveXML struct {
	XMLName xml.Name `xml:"objective"`
	Text    string   `xml:",chardata"`
}

type planXML struct {
	XMLName xml.Name `xml:"plan"`
	Steps   []string `xml:"step"`
}

type completedXML struct {
	XMLName xml.Name             `xml:"completed_steps"`
	Steps   []plan.CompletedStep `xml:"completed_step"`
}

// toolSummary is the YAML shape of a tool listed in a planning prompt.
type toolSummary struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description,omitempty"`
	Arguments   []string `yaml:"arguments,omitempty"`
}

func summarizeTools(defs []toolcall.Definition) []toolSummary {
	out := make([]toolSummary, 0, len(defs))
	for _, d := range defs {
		s := toolSummary{Name: d.Name, Description: d.Description}
		for _, p := range d.Parameters {
			s.Arguments = append(s.Arguments, p.Name)
		}
		out = append(out, s)
	}
	return out
}
