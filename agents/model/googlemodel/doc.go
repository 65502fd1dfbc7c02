/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package googlemodel implements model.Model on Gemini through the genai SDK,
// against either Vertex AI or the Gemini API.
package googlemodel
