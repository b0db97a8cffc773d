package content

import (
	"strings"
	"unicode"

	"github.com/ksasanka/ai-newsletter/internal/model"
)

// DefaultSimilarityThreshold is the Jaccard similarity above which two
// titles count as the same story.
const DefaultSimilarityThreshold = 0.85

// Deduper drops near-duplicate items by title similarity. The first
// occurrence wins; order is preserved.
type Deduper struct {
	threshold float64
}

func NewDeduper(threshold float64) *Deduper {
	if threshold <= 0 {
		threshold = DefaultSimilarityThreshold
	}
	return &Deduper{threshold: threshold}
}

// Deduplicate compares every item's normalized title word set against the
// titles already kept and drops items whose similarity exceeds the
// threshold. Items with empty titles never match anything and are kept.
func (d *Deduper) Deduplicate(items []model.ContentItem) []model.ContentItem {
	seen := make([]map[string]struct{}, 0, len(items))
	out := make([]model.ContentItem, 0, len(items))
	for _, it := range items {
		words := titleWords(it.Title)
		dup := false
		for _, s := range seen {
			if jaccard(words, s) > d.threshold {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		seen = append(seen, words)
		out = append(out, it)
	}
	return out
}

// titleWords lowercases a title and splits it into a word set. Punctuation
// is trimmed from word edges so "released!!" and "released" compare equal;
// interior punctuation ("gpt-4") is kept.
func titleWords(title string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range strings.Fields(strings.ToLower(title)) {
		tok = strings.TrimFunc(tok, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if tok != "" {
			set[tok] = struct{}{}
		}
	}
	return set
}

// jaccard is intersection over union of two word sets. Either side empty
// compares as 0 so empty titles never count as duplicates.
func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inter := 0
	for w := range a {
		if _, ok := b[w]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}
