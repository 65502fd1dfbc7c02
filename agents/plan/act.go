/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package plan

// Response is the replanner's request to stop and answer.
type Response struct {
	Response string `json:"response" jsonschema:"required,description=Response to the user."`
}

// Act is the replanner's decision: either respond or continue with a new plan.
// Exactly one of the fields is set.
type Act struct {
	Response *Response
	Plan     *Plan
}

// Respond returns an Act that ends the loop.
func Respond(text string) Act {
	return Act{Response: &Response{Response: text}}
}

// Continue returns an Act that carries the remaining steps.
func Continue(p Plan) Act {
	return Act{Plan: &p}
}

// Done reports whether the act ends the loop. An explicit response and a
// plan with no steps are the same signal.
func (a Act) Done() bool {
	return a.Response != nil || a.Plan == nil || a.Plan.Empty()
}

// Remaining returns the steps still to execute, empty when Done.
func (a Act) Remaining() Plan {
	if a.Done() {
		return Plan{}
	}
	return *a.Plan
}
