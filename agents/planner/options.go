/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package planner

import (
	"chainguard.dev/repochat/agents/toolcall"
)

type config struct {
	tools []toolcall.Definition
}

// Option configures a Planner or Replanner.
type Option func(*config) error

// WithTools lists the executor's tools in the planning prompt so steps can
// name them.
func WithTools(defs []toolcall.Definition) Option {
	return func(c *config) error {
		c.tools = append([]toolcall.Definition(nil), defs...)
		return nil
	}
}

func newConfig(opts []Option) (config, error) {
	var c config
	for _, opt := range opts {
		if err := opt(&c); err != nil {
			return c, err
		}
	}
	return c, nil
}
