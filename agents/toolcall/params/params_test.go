/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package params

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestExtract(t *testing.T) {
	args := map[string]any{
		"repo_name":       "org/repo",
		"num_commits":     float64(3),
		"fraction":        float64(2.5),
		"file_extensions": []any{".go", ".md"},
		"mixed":           []any{".go", 1.0},
		"null":            nil,
	}

	if got, err := Extract[string](args, "repo_name"); err != nil || got != "org/repo" {
		t.Errorf("Extract[string] = %q, %v", got, err)
	}
	if got, err := Extract[int](args, "num_commits"); err != nil || got != 3 {
		t.Errorf("Extract[int] = %d, %v", got, err)
	}
	if got, err := Extract[int64](args, "num_commits"); err != nil || got != 3 {
		t.Errorf("Extract[int64] = %d, %v", got, err)
	}
	got, err := Extract[[]string](args, "file_extensions")
	if err != nil {
		t.Fatalf("Extract[[]string]: %v", err)
	}
	if diff := cmp.Diff([]string{".go", ".md"}, got); diff != "" {
		t.Errorf("Extract[[]string] mismatch (-want +got):\n%s", diff)
	}

	errCases := []struct {
		name string
		fn   func() error
	}{
		{"missing", func() error { _, err := Extract[string](args, "nope"); return err }},
		{"null", func() error { _, err := Extract[string](args, "null"); return err }},
		{"wrong type", func() error { _, err := Extract[string](args, "num_commits"); return err }},
		{"fractional int", func() error { _, err := Extract[int](args, "fraction"); return err }},
		{"mixed list", func() error { _, err := Extract[[]string](args, "mixed"); return err }},
	}
	for _, tc := range errCases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.fn(); err == nil {
				t.Error("got nil error, want error")
			}
		})
	}
}

func TestExtractOptional(t *testing.T) {
	args := map[string]any{"num_items": float64(7), "null": nil}

	tests := []struct {
		name string
		key  string
		want int
	}{
		{name: "present", key: "num_items", want: 7},
		{name: "absent", key: "missing", want: 5},
		{name: "null", key: "null", want: 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractOptional(args, tt.key, 5)
			if err != nil {
				t.Fatalf("ExtractOptional: %v", err)
			}
			if got != tt.want {
				t.Errorf("ExtractOptional() = %d, want %d", got, tt.want)
			}
		})
	}

	if _, err := ExtractOptional(map[string]any{"n": "seven"}, "n", 5); err == nil {
		t.Error("ExtractOptional(wrong type) = nil error, want error")
	}
}
