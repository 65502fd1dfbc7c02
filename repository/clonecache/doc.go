/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package clonecache keeps local checkouts of GitHub repositories keyed by
// their "org/name" slug.
//
// A repository is cloned the first time it is requested and reused after
// that; checkouts are never refreshed. Concurrent requests for the same
// repository share a single clone:
//
//	cache, err := clonecache.New("./tmp", clonecache.WithTokenSource(ts))
//	if err != nil {
//		return err
//	}
//	dir, err := cache.Path(ctx, "chainguard-dev/apko")
package clonecache
