// Package pipeline orchestrates query answering: normalization, optional
// rewrite, semantic retrieval, live catalog augmentation, context fusion,
// prompt construction, and generation with fallback.
package pipeline

import (
	"regexp"
	"strings"
)

var whitespaceRuns = regexp.MustCompile(`\s+`)

// NormalizeQuery collapses runs of whitespace to single spaces and trims the
// result. Empty input yields an empty string.
func NormalizeQuery(q string) string {
	return strings.TrimSpace(whitespaceRuns.ReplaceAllString(q, " "))
}
