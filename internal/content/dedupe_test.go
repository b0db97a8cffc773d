package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ksasanka/ai-newsletter/internal/model"
)

func TestDeduplicateKeepsFirstOccurrence(t *testing.T) {
	d := NewDeduper(0)
	kept := d.Deduplicate([]model.ContentItem{
		{Title: "New Transformer Model Released", Source: "Blog A"},
		{Title: "OpenAI launches GPT store", Source: "Blog B"},
		{Title: "new transformer model released!!", Source: "Blog C"},
	})
	require.Len(t, kept, 2)
	assert.Equal(t, "Blog A", kept[0].Source)
	assert.Equal(t, "Blog B", kept[1].Source)
}

func TestDeduplicateKeepsDistinctTitles(t *testing.T) {
	d := NewDeduper(0)
	kept := d.Deduplicate([]model.ContentItem{
		{Title: "OpenAI launches GPT-5"},
		{Title: "Anthropic launches Claude"},
	})
	assert.Len(t, kept, 2)
}

func TestDeduplicateIdempotent(t *testing.T) {
	d := NewDeduper(0)
	in := []model.ContentItem{
		{Title: "llm release today"},
		{Title: "llm release today!!"},
		{Title: "something else entirely"},
	}
	once := d.Deduplicate(in)
	twice := d.Deduplicate(once)
	assert.Equal(t, once, twice)
}

func TestDeduplicateEmptyTitlesNeverMatch(t *testing.T) {
	d := NewDeduper(0)
	kept := d.Deduplicate([]model.ContentItem{
		{Title: "", Source: "A"},
		{Title: "", Source: "B"},
		{Title: "   ", Source: "C"},
	})
	assert.Len(t, kept, 3)
}

func TestDeduplicateThreshold(t *testing.T) {
	items := []model.ContentItem{
		{Title: "big news model release today"},
		{Title: "big news model release yesterday"}, // similarity 4/6 ≈ 0.67
	}
	assert.Len(t, NewDeduper(0.85).Deduplicate(items), 2)
	assert.Len(t, NewDeduper(0.5).Deduplicate(items), 1)
}

func TestJaccard(t *testing.T) {
	cases := []struct {
		a, b string
		want float64
	}{
		{"new transformer model released", "new transformer model released!!", 1.0},
		{"a b c d", "a b c e", 3.0 / 5.0},
		{"a b", "c d", 0},
		{"", "a b", 0},
		{"", "", 0},
	}
	for _, c := range cases {
		got := jaccard(titleWords(c.a), titleWords(c.b))
		assert.InDelta(t, c.want, got, 1e-9, "jaccard(%q, %q)", c.a, c.b)
	}
}
