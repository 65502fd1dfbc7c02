/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package inspect answers read-only questions about a local checkout: file
// contents, the directory tree, line searches and recent commits.
//
// Every walk skips the .git directory and visits entries in lexical order,
// so repeated calls on an unchanged checkout return identical output.
package inspect
