/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package clonecache

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/chainguard-dev/clog"
	"github.com/go-git/go-git/v5"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"
)

const cloneDirPrefix = ".clonecache-"

// ErrInvalidName is returned for names that are not of the form org/name.
var ErrInvalidName = errors.New("repository name must be of the form org/name")

var namePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+/[A-Za-z0-9_.-]+$`)

// GitHubURL resolves a repository slug to its public GitHub clone URL.
func GitHubURL(name string) string {
	return "https://github.com/" + name
}

// Cache clones repositories under a root directory on first use.
type Cache struct {
	root        string
	remoteURL   func(name string) string
	tokenSource oauth2.TokenSource

	group singleflight.Group
}

// Option configures a Cache.
type Option func(*Cache) error

// WithTokenSource authenticates clones with the tokens of ts, for private
// repositories and higher rate limits.
func WithTokenSource(ts oauth2.TokenSource) Option {
	return func(c *Cache) error {
		if ts == nil {
			return errors.New("token source cannot be nil")
		}
		c.tokenSource = ts
		return nil
	}
}

// WithRemoteURL overrides how a slug maps to a clone URL. The default is
// GitHubURL.
func WithRemoteURL(fn func(name string) string) Option {
	return func(c *Cache) error {
		if fn == nil {
			return errors.New("remote URL func cannot be nil")
		}
		c.remoteURL = fn
		return nil
	}
}

// New returns a Cache storing checkouts under root, creating it if needed.
func New(root string, opts ...Option) (*Cache, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("root cannot be empty")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("creating root: %w", err)
	}

	c := &Cache{root: abs, remoteURL: GitHubURL}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}
	return c, nil
}

// ValidateName reports whether name is a usable org/name slug.
func ValidateName(name string) error {
	if !namePattern.MatchString(name) {
		return fmt.Errorf("%w, got %q", ErrInvalidName, name)
	}
	for _, part := range strings.Split(name, "/") {
		if part == "." || part == ".." {
			return fmt.Errorf("%w, got %q", ErrInvalidName, name)
		}
	}
	return nil
}

// Path returns the checkout directory for name, cloning it when absent.
// A clone shared by concurrent callers runs to completion even when the
// caller that started it gives up; each caller only waits on its own ctx.
func (c *Cache) Path(ctx context.Context, name string) (string, error) {
	if err := ValidateName(name); err != nil {
		return "", err
	}
	dest := filepath.Join(c.root, filepath.FromSlash(name))

	cloneCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(name, func() (any, error) {
		if exists(dest) {
			clog.FromContext(cloneCtx).With("repo", name).Debug("Reusing cached checkout")
			return dest, nil
		}
		return dest, c.clone(cloneCtx, name, dest)
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		if res.Shared {
			clog.FromContext(ctx).With("repo", name).Debug("Shared in-flight clone")
		}
		return res.Val.(string), nil
	}
}

// clone fetches name into a temporary sibling of dest and renames it into
// place, so dest never holds a partial checkout.
func (c *Cache) clone(ctx context.Context, name, dest string) error {
	parent := filepath.Dir(dest)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", parent, err)
	}
	tmp, err := os.MkdirTemp(parent, cloneDirPrefix)
	if err != nil {
		return fmt.Errorf("creating temp dir: %w", err)
	}

	remote := c.remoteURL(name)
	clog.FromContext(ctx).Infof("Cloning repository %s into %s", remote, dest)

	auth, err := c.auth()
	if err != nil {
		os.RemoveAll(tmp)
		return fmt.Errorf("getting token: %w", err)
	}

	opts := &git.CloneOptions{URL: remote}
	if auth != nil {
		opts.Auth = auth
	}
	if _, err := git.PlainCloneContext(ctx, tmp, false, opts); err != nil {
		os.RemoveAll(tmp)
		return fmt.Errorf("cloning repository %s: %w", name, err)
	}
	if err := os.Rename(tmp, dest); err != nil {
		os.RemoveAll(tmp)
		return fmt.Errorf("moving clone into place: %w", err)
	}

	clog.FromContext(ctx).With("repo", name).Info("Successfully cloned repository")
	return nil
}

func (c *Cache) auth() (*githttp.BasicAuth, error) {
	if c.tokenSource == nil {
		return nil, nil
	}
	token, err := c.tokenSource.Token()
	if err != nil {
		return nil, err
	}
	return &githttp.BasicAuth{
		Username: "unused-when-using-access-tokens",
		Password: token.AccessToken,
	}, nil
}

func exists(dir string) bool {
	fi, err := os.Stat(dir)
	return err == nil && fi.IsDir()
}
