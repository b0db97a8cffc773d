// Package content implements the curation pipeline: items collected from
// all sources are categorized, filtered, deduplicated, ranked and trimmed
// into per-category digest sections.
package content

import (
	"strings"

	"github.com/ksasanka/ai-newsletter/internal/config"
	"github.com/ksasanka/ai-newsletter/internal/model"
)

// Categorizer assigns items to categories by keyword match, with a
// type-based fallback for items that match nothing.
type Categorizer struct {
	categories []categoryKeywords
}

type categoryKeywords struct {
	name     string
	keywords []string
}

// NewCategorizer builds a categorizer over the given categories, assumed
// enabled and already in stable order.
func NewCategorizer(cats []config.Category) *Categorizer {
	c := &Categorizer{categories: make([]categoryKeywords, 0, len(cats))}
	for _, cat := range cats {
		c.categories = append(c.categories, categoryKeywords{
			name:     cat.Name,
			keywords: normalizeKeywords(cat.Keywords),
		})
	}
	return c
}

// Categorize returns the categories the item belongs to. Matching is a
// case-insensitive substring check of each keyword against the item's
// title and description; an item can land in several categories. When
// nothing matches, the item type's fallback category applies.
func (c *Categorizer) Categorize(it model.ContentItem) []string {
	text := matchText(it)
	var out []string
	for _, cat := range c.categories {
		for _, kw := range cat.keywords {
			if strings.Contains(text, kw) {
				out = append(out, cat.name)
				break
			}
		}
	}
	if len(out) == 0 {
		if fb, ok := it.Type.FallbackCategory(); ok {
			out = append(out, fb)
		}
	}
	return out
}

// matchText is the lowercased text keyword checks run against.
func matchText(it model.ContentItem) string {
	return strings.ToLower(it.Title + " " + it.Description)
}

// normalizeKeywords lowercases keywords and drops empty ones.
func normalizeKeywords(kws []string) []string {
	out := make([]string, 0, len(kws))
	for _, kw := range kws {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			out = append(out, kw)
		}
	}
	return out
}
