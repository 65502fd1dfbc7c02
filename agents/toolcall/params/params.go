/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package params extracts typed tool arguments from JSON-decoded maps.
//
// Providers decode arguments with encoding/json, so numbers arrive as
// float64 and arrays as []any. Extract converts those into the integer and
// []string types tool handlers ask for.
package params

import (
	"fmt"
	"math"
)

// Extract returns the required argument name as a T.
func Extract[T any](args map[string]any, name string) (T, error) {
	var zero T
	value, ok := args[name]
	if !ok || value == nil {
		return zero, fmt.Errorf("%s parameter is required", name)
	}
	return convert[T](name, value)
}

// ExtractOptional returns the argument name as a T, or def when it is absent.
func ExtractOptional[T any](args map[string]any, name string, def T) (T, error) {
	value, ok := args[name]
	if !ok || value == nil {
		return def, nil
	}
	return convert[T](name, value)
}

func convert[T any](name string, value any) (T, error) {
	var zero T
	if v, ok := value.(T); ok {
		return v, nil
	}

	var out any
	switch any(zero).(type) {
	case int:
		if f, ok := value.(float64); ok && f == math.Trunc(f) {
			out = int(f)
		}
	case int64:
		if f, ok := value.(float64); ok && f == math.Trunc(f) {
			out = int64(f)
		}
	case []string:
		if items, ok := value.([]any); ok {
			strs := make([]string, 0, len(items))
			for _, item := range items {
				s, ok := item.(string)
				if !ok {
					return zero, fmt.Errorf("%s parameter must be a list of strings, got element %T", name, item)
				}
				strs = append(strs, s)
			}
			out = strs
		}
	}
	if v, ok := out.(T); ok {
		return v, nil
	}
	return zero, fmt.Errorf("%s parameter must be of type %T, got %T", name, zero, value)
}
