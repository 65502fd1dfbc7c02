/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package inspect

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"chainguard.dev/repochat/agents/toolcall/callbacks"
	"github.com/chainguard-dev/clog"
)

// ErrFileNotFound is returned by ReadFile when no file has the given name.
var ErrFileNotFound = errors.New("file not found in the repository")

const indent = "    "

// walk visits every entry under root except .git, in lexical order.
func walk(ctx context.Context, root string, fn func(rel string, d fs.DirEntry) error) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() && d.Name() == ".git" {
			return filepath.SkipDir
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		return fn(filepath.ToSlash(rel), d)
	})
}

func matchesExt(name string, exts []string) bool {
	return len(exts) == 0 || slices.Contains(exts, filepath.Ext(name))
}

// AllContents concatenates every regular file whose extension is in exts
// (all files when exts is empty), each preceded by a "# File: path" header.
// Unreadable files are skipped.
func AllContents(ctx context.Context, root string, exts []string) (string, error) {
	var parts []string
	err := walk(ctx, root, func(rel string, d fs.DirEntry) error {
		if !d.Type().IsRegular() || !matchesExt(d.Name(), exts) {
			return nil
		}
		b, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
		if err != nil {
			clog.FromContext(ctx).With("file", rel).With("error", err).Warn("Skipping unreadable file")
			return nil
		}
		parts = append(parts, fmt.Sprintf("\n# File: %s\n%s", rel, strings.ToValidUTF8(string(b), "")))
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("reading repository contents: %w", err)
	}
	return strings.Join(parts, "\n"), nil
}

// ReadFile returns the contents of the first file named filename in walk
// order. A path prefix in filename is ignored.
func ReadFile(ctx context.Context, root, filename string) (string, error) {
	base := filepath.Base(filepath.FromSlash(filename))
	var found string
	err := walk(ctx, root, func(rel string, d fs.DirEntry) error {
		if d.Type().IsRegular() && d.Name() == base {
			found = rel
			return fs.SkipAll
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("searching for %s: %w", base, err)
	}
	if found == "" {
		return "", fmt.Errorf("%s: %w", base, ErrFileNotFound)
	}

	b, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(found)))
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", found, err)
	}
	return string(b), nil
}

// Structure renders the tree under root with directories suffixed by "/"
// and four spaces of indentation per level. The first line is the root
// directory itself.
func Structure(ctx context.Context, root string) (string, error) {
	var b strings.Builder
	err := walk(ctx, root, func(rel string, d fs.DirEntry) error {
		if rel == "." {
			fmt.Fprintf(&b, "%s/\n", filepath.Base(root))
			return nil
		}
		depth := strings.Count(rel, "/") + 1
		b.WriteString(strings.Repeat(indent, depth))
		b.WriteString(d.Name())
		if d.IsDir() {
			b.WriteString("/")
		}
		b.WriteString("\n")
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("rendering structure: %w", err)
	}
	return b.String(), nil
}

// Search returns every line of the files with an extension in exts that
// matches the RE2 pattern. Content is trimmed of surrounding whitespace and
// line numbers start at 1.
func Search(ctx context.Context, root, pattern string, exts []string) ([]callbacks.Match, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid search pattern: %w", err)
	}

	var matches []callbacks.Match
	err = walk(ctx, root, func(rel string, d fs.DirEntry) error {
		if !d.Type().IsRegular() || !matchesExt(d.Name(), exts) {
			return nil
		}
		found, err := searchFile(filepath.Join(root, filepath.FromSlash(rel)), rel, re)
		if err != nil {
			clog.FromContext(ctx).With("file", rel).With("error", err).Error("Error reading file")
			return nil
		}
		matches = append(matches, found...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("searching repository: %w", err)
	}
	return matches, nil
}

func searchFile(path, rel string, re *regexp.Regexp) ([]callbacks.Match, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var matches []callbacks.Match
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for n := 1; sc.Scan(); n++ {
		line := sc.Text()
		if re.MatchString(line) {
			matches = append(matches, callbacks.Match{FilePath: rel, LineNo: n, Content: strings.TrimSpace(line)})
		}
	}
	return matches, sc.Err()
}
