// Package htmltext turns HTML fragments from feeds and scraped pages into
// plain text suitable for digest descriptions.
package htmltext

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// MaxExcerpt bounds description length across all sources.
const MaxExcerpt = 300

var strict = bluemonday.StrictPolicy()

// Strip removes all markup and collapses whitespace.
func Strip(s string) string {
	s = strict.Sanitize(s)
	s = html.UnescapeString(s)
	return strings.Join(strings.Fields(s), " ")
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// Excerpt strips markup and bounds the result to MaxExcerpt runes.
func Excerpt(s string) string {
	return Truncate(Strip(s), MaxExcerpt)
}
