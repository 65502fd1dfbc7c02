/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package hosting summarizes recent issues and pull requests of a GitHub
// repository through the REST API.
package hosting

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chainguard-dev/clog"
	"github.com/google/go-github/v84/github"
	"golang.org/x/oauth2"
	"golang.org/x/sync/errgroup"
)

// MaxItems caps the issues and the pull requests of one listing; it is the
// largest page GitHub serves.
const MaxItems = 100

const (
	// issuePageSize over-fetches issues because the issues endpoint also
	// returns pull requests, which are filtered out.
	issuePageSize = 30
	// maxIssuePages bounds the pages read while skipping pull requests.
	maxIssuePages = 5
	bodyLimit     = 300
)

var (
	sectionRule = strings.Repeat("=", 10)
	itemRule    = strings.Repeat("-", 80)
)

// Client reads issues and pull requests.
type Client struct {
	gh *github.Client
}

// New wraps gh. A nil gh uses an unauthenticated client.
func New(gh *github.Client) *Client {
	if gh == nil {
		gh = github.NewClient(nil)
	}
	return &Client{gh: gh}
}

// NewFromTokenSource returns a Client authenticating with ts, or an
// unauthenticated one when ts is nil.
func NewFromTokenSource(ctx context.Context, ts oauth2.TokenSource) *Client {
	if ts == nil {
		return New(nil)
	}
	return New(github.NewClient(oauth2.NewClient(ctx, ts)))
}

// Item is one issue or pull request.
type Item struct {
	Number    int
	Title     string
	Author    string
	State     string
	CreatedAt time.Time
	URL       string
	Body      string
}

func (it Item) render(kind string) string {
	created := "Unknown"
	if !it.CreatedAt.IsZero() {
		created = it.CreatedAt.UTC().Format(time.RFC3339)
	}
	return fmt.Sprintf("%s #%d: %s\nAuthor: %s | State: %s | Created: %s\nURL: %s\nBody: %s\n%s",
		kind, it.Number, it.Title, it.Author, it.State, created, it.URL, it.Body, itemRule)
}

// cleanBody flattens body onto one line and truncates it to bodyLimit runes.
func cleanBody(body string) string {
	body = strings.ReplaceAll(strings.TrimSpace(body), "\n", " ")
	body = strings.ReplaceAll(body, "\r", "")
	if r := []rune(body); len(r) > bodyLimit {
		return string(r[:bodyLimit])
	}
	return body
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// RecentIssues returns up to n (at most MaxItems) of the most recently
// created issues, excluding pull requests. It follows the next page while
// pull requests crowd out issues.
func (c *Client) RecentIssues(ctx context.Context, owner, repo string, n int) ([]Item, error) {
	n = min(n, MaxItems)
	opts := &github.IssueListByRepoOptions{
		State:     "all",
		Sort:      "created",
		Direction: "desc",
		ListOptions: github.ListOptions{
			PerPage: min(max(issuePageSize, n), MaxItems),
		},
	}

	items := make([]Item, 0, n)
	for page := 0; page < maxIssuePages && len(items) < n; page++ {
		issues, resp, err := c.gh.Issues.ListByRepo(ctx, owner, repo, opts)
		if err != nil {
			return nil, fmt.Errorf("listing issues of %s/%s: %w", owner, repo, err)
		}
		for _, is := range issues {
			if is.IsPullRequest() {
				continue
			}
			if len(items) == n {
				break
			}
			items = append(items, Item{
				Number:    is.GetNumber(),
				Title:     orDefault(is.GetTitle(), "No title"),
				Author:    orDefault(is.GetUser().GetLogin(), "Unknown"),
				State:     orDefault(is.GetState(), "Unknown"),
				CreatedAt: is.GetCreatedAt().Time,
				URL:       is.GetHTMLURL(),
				Body:      cleanBody(is.GetBody()),
			})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.ListOptions.Page = resp.NextPage
	}
	return items, nil
}

// RecentPullRequests returns up to n (at most MaxItems) of the most
// recently created pull requests.
func (c *Client) RecentPullRequests(ctx context.Context, owner, repo string, n int) ([]Item, error) {
	n = min(n, MaxItems)
	prs, _, err := c.gh.PullRequests.List(ctx, owner, repo, &github.PullRequestListOptions{
		State:     "all",
		Sort:      "created",
		Direction: "desc",
		ListOptions: github.ListOptions{
			PerPage: n,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("listing pull requests of %s/%s: %w", owner, repo, err)
	}

	items := make([]Item, 0, min(n, len(prs)))
	for _, pr := range prs {
		if len(items) == n {
			break
		}
		items = append(items, Item{
			Number:    pr.GetNumber(),
			Title:     orDefault(pr.GetTitle(), "No title"),
			Author:    orDefault(pr.GetUser().GetLogin(), "Unknown"),
			State:     orDefault(pr.GetState(), "Unknown"),
			CreatedAt: pr.GetCreatedAt().Time,
			URL:       pr.GetHTMLURL(),
			Body:      cleanBody(pr.GetBody()),
		})
	}
	return items, nil
}

// RecentIssuesAndPRs fetches issues and pull requests concurrently and
// renders them as two sections.
func (c *Client) RecentIssuesAndPRs(ctx context.Context, owner, repo string, n int) (string, error) {
	switch {
	case strings.TrimSpace(owner) == "":
		return "", errors.New("owner cannot be empty")
	case strings.TrimSpace(repo) == "":
		return "", errors.New("repo cannot be empty")
	case n <= 0:
		return "", fmt.Errorf("number of items must be positive, got %d", n)
	case n > MaxItems:
		clog.FromContext(ctx).With("requested", n).With("max", MaxItems).Warn("Capping number of issues and pull requests")
		n = MaxItems
	}

	var issues, prs []Item
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		issues, err = c.RecentIssues(gctx, owner, repo, n)
		return err
	})
	g.Go(func() (err error) {
		prs, err = c.RecentPullRequests(gctx, owner, repo, n)
		return err
	})
	if err := g.Wait(); err != nil {
		return "", err
	}

	clog.FromContext(ctx).With("repo", owner+"/"+repo).
		With("issues", len(issues)).
		With("pull_requests", len(prs)).
		Info("Fetched recent issues and pull requests")

	details := []string{fmt.Sprintf("%s Recent Issues %s", sectionRule, sectionRule)}
	if len(issues) == 0 {
		details = append(details, "No recent Issues found.\n"+itemRule)
	}
	for _, it := range issues {
		details = append(details, it.render("Issue"))
	}
	details = append(details, fmt.Sprintf("%s Recent Pull Requests %s", sectionRule, sectionRule))
	if len(prs) == 0 {
		details = append(details, "No recent Pull Requests found.\n"+itemRule)
	}
	for _, it := range prs {
		details = append(details, it.render("PR"))
	}
	return strings.Join(details, "\n\n"), nil
}
