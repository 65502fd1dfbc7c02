/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package hosting

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-github/v84/github"
	"github.com/stretchr/testify/require"
)

type fakeGitHub struct {
	issues []map[string]any
	// issuePages, when set, is served one page per request with a next link.
	issuePages [][]map[string]any
	pulls      []map[string]any
	status     int

	mu         sync.Mutex
	issueQuery url.Values
	issueCalls int
	pullQuery  url.Values
}

func (f *fakeGitHub) client(t *testing.T) *Client {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/org/repo/issues", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.issueQuery = r.URL.Query()
		f.issueCalls++
		f.mu.Unlock()
		if f.issuePages == nil {
			f.write(w, f.issues)
			return
		}
		page, err := strconv.Atoi(r.URL.Query().Get("page"))
		if err != nil {
			page = 1
		}
		if page < len(f.issuePages) {
			w.Header().Set("Link", fmt.Sprintf(`<http://%s%s?page=%d>; rel="next"`, r.Host, r.URL.Path, page+1))
		}
		f.write(w, f.issuePages[page-1])
	})
	mux.HandleFunc("/repos/org/repo/pulls", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.pullQuery = r.URL.Query()
		f.mu.Unlock()
		f.write(w, f.pulls)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	gh := github.NewClient(nil)
	base, err := url.Parse(srv.URL + "/")
	require.NoError(t, err)
	gh.BaseURL = base
	return New(gh)
}

func (f *fakeGitHub) write(w http.ResponseWriter, v any) {
	if f.status != 0 {
		w.WriteHeader(f.status)
		_, _ = w.Write([]byte(`{"message":"Not Found"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func item(number int, title string, extra map[string]any) map[string]any {
	m := map[string]any{
		"number":     number,
		"title":      title,
		"state":      "open",
		"user":       map[string]any{"login": "octocat"},
		"created_at": "2025-05-01T10:00:00Z",
		"html_url":   "https://github.com/org/repo/issues/" + title,
		"body":       "line one\nline two",
	}
	for k, v := range extra {
		m[k] = v
	}
	return m
}

func TestRecentIssuesAndPRs(t *testing.T) {
	f := &fakeGitHub{
		issues: []map[string]any{
			item(10, "pr-in-issues", map[string]any{"pull_request": map[string]any{"url": "x"}}),
			item(9, "bug", nil),
			item(8, "feature", map[string]any{"body": strings.Repeat("a", 400)}),
			item(7, "extra", nil),
		},
		pulls: []map[string]any{
			item(11, "fix", map[string]any{"state": "closed"}),
		},
	}
	c := f.client(t)

	got, err := c.RecentIssuesAndPRs(context.Background(), "org", "repo", 2)
	require.NoError(t, err)

	f.mu.Lock()
	defer f.mu.Unlock()
	require.Equal(t, "all", f.issueQuery.Get("state"))
	require.Equal(t, "created", f.issueQuery.Get("sort"))
	require.Equal(t, "desc", f.issueQuery.Get("direction"))
	require.Equal(t, "30", f.issueQuery.Get("per_page"))
	require.Equal(t, "2", f.pullQuery.Get("per_page"))

	require.True(t, strings.HasPrefix(got, "========== Recent Issues ==========\n\nIssue #9: bug\n"))
	require.Contains(t, got, "Author: octocat | State: open | Created: 2025-05-01T10:00:00Z")
	require.Contains(t, got, "Body: line one line two\n")
	require.Contains(t, got, "Issue #8: feature")
	require.Contains(t, got, "Body: "+strings.Repeat("a", 300)+"\n")
	require.NotContains(t, got, strings.Repeat("a", 301))
	require.NotContains(t, got, "pr-in-issues")
	require.NotContains(t, got, "extra")
	require.Contains(t, got, "========== Recent Pull Requests ==========\n\nPR #11: fix\n")
	require.Contains(t, got, "State: closed")
}

func TestRecentIssuesFollowsPages(t *testing.T) {
	pr := map[string]any{"pull_request": map[string]any{"url": "x"}}
	f := &fakeGitHub{issuePages: [][]map[string]any{
		{item(5, "pr-a", pr), item(4, "pr-b", pr), item(3, "first", nil)},
		{item(2, "pr-c", pr), item(1, "second", nil)},
		{item(0, "third", nil)},
	}}
	c := f.client(t)

	got, err := c.RecentIssues(context.Background(), "org", "repo", 2)
	require.NoError(t, err)

	var titles []string
	for _, it := range got {
		titles = append(titles, it.Title)
	}
	require.Equal(t, []string{"first", "second"}, titles)
	f.mu.Lock()
	defer f.mu.Unlock()
	require.Equal(t, 2, f.issueCalls)
}

func TestRecentIssuesAndPRsCapsItems(t *testing.T) {
	f := &fakeGitHub{}
	c := f.client(t)

	_, err := c.RecentIssuesAndPRs(context.Background(), "org", "repo", 250)
	require.NoError(t, err)

	f.mu.Lock()
	defer f.mu.Unlock()
	require.Equal(t, strconv.Itoa(MaxItems), f.issueQuery.Get("per_page"))
	require.Equal(t, strconv.Itoa(MaxItems), f.pullQuery.Get("per_page"))
}

func TestRecentIssuesAndPRsEmpty(t *testing.T) {
	c := (&fakeGitHub{}).client(t)

	got, err := c.RecentIssuesAndPRs(context.Background(), "org", "repo", 5)
	require.NoError(t, err)
	require.Equal(t, strings.Join([]string{
		"========== Recent Issues ==========",
		"No recent Issues found.\n" + strings.Repeat("-", 80),
		"========== Recent Pull Requests ==========",
		"No recent Pull Requests found.\n" + strings.Repeat("-", 80),
	}, "\n\n"), got)
}

func TestRecentIssuesAndPRsErrors(t *testing.T) {
	c := (&fakeGitHub{status: http.StatusNotFound}).client(t)

	_, err := c.RecentIssuesAndPRs(context.Background(), "org", "repo", 5)
	require.Error(t, err)

	for _, tc := range []struct {
		owner, repo string
		n           int
	}{
		{"", "repo", 5},
		{"org", " ", 5},
		{"org", "repo", 0},
	} {
		_, err := c.RecentIssuesAndPRs(context.Background(), tc.owner, tc.repo, tc.n)
		require.Error(t, err, "owner=%q repo=%q n=%d", tc.owner, tc.repo, tc.n)
	}
}

func TestCleanBody(t *testing.T) {
	require.Equal(t, "a b", cleanBody("  a\r\nb \n"))
	require.Equal(t, "", cleanBody(""))
	require.Len(t, []rune(cleanBody(strings.Repeat("é", 500))), bodyLimit)
}
