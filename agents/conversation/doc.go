/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package conversation holds the role-tagged messages exchanged with models
// and tools during a run, and the append-only Log that orders them.
//
// A tool-result message must reference a tool call requested by an earlier
// assistant message in the same Log, and each tool call is answered at most
// once. Messages are copied on the way in and on the way out.
package conversation
