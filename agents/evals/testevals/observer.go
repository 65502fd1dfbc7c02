/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package testevals

import (
	"sync/atomic"
	"testing"

	"chainguard.dev/repochat/agents/evals"
)

// observer reports check failures as test errors.
type observer struct {
	tb     testing.TB
	prefix string
	count  atomic.Int64
}

// New returns an Observer that fails tb on check failures.
func New(tb testing.TB) evals.Observer {
	return &observer{tb: tb}
}

// NewPrefix is New with a message prefix.
func NewPrefix(tb testing.TB, prefix string) evals.Observer {
	return &observer{tb: tb, prefix: prefix}
}

func (o *observer) Fail(msg string) {
	o.tb.Helper()
	if o.prefix != "" {
		o.tb.Errorf("%s: %s", o.prefix, msg)
		return
	}
	o.tb.Error(msg)
}

func (o *observer) Log(msg string) {
	o.tb.Helper()
	if o.prefix != "" {
		o.tb.Logf("%s: %s", o.prefix, msg)
		return
	}
	o.tb.Log(msg)
}

func (o *observer) Increment() { o.count.Add(1) }

func (o *observer) Total() int64 { return o.count.Load() }
