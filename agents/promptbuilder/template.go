/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package promptbuilder

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// substitute walks template once, replacing each {{name}} with the value
// returned by resolve. Replacement text is never rescanned.
func substitute(template string, resolve func(name string) (string, error)) (string, error) {
	var out strings.Builder
	for {
		open := strings.Index(template, "{{")
		if open < 0 {
			out.WriteString(template)
			return out.String(), nil
		}
		out.WriteString(template[:open])

		rest := template[open+2:]
		end := strings.Index(rest, "}}")
		if end < 0 {
			return "", errors.New("unclosed binding: missing '}}'")
		}
		name := strings.TrimSpace(rest[:end])
		if !isIdentifier(name) {
			return "", fmt.Errorf("invalid binding identifier %q", name)
		}
		v, err := resolve(name)
		if err != nil {
			return "", err
		}
		out.WriteString(v)
		template = rest[end+2:]
	}
}

// isIdentifier accepts a letter followed by letters, digits or underscores.
func isIdentifier(s string) bool {
	for i, r := range s {
		switch {
		case unicode.IsLetter(r):
		case i > 0 && (unicode.IsDigit(r) || r == '_'):
		default:
			return false
		}
	}
	return s != ""
}
