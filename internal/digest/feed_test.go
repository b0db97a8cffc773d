package digest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func feedDigest() Digest {
	return Digest{
		Date: "August 21, 2026",
		Sections: []Section{
			{Title: "🤖 AI Models & Research", Items: []Item{{
				Title:       "GPT-5 mini released",
				URL:         "https://example.test/gpt5",
				Description: "A smaller frontier model.",
				Source:      "r/artificial",
				Published:   time.Date(2026, time.August, 20, 8, 0, 0, 0, time.UTC),
				Authors:     "Alice Chen",
			}}},
			{Title: "🚀 Product Launches", Items: []Item{{
				Title:     "PromptDeck",
				URL:       "https://example.test/promptdeck",
				Published: time.Date(2026, time.August, 21, 9, 0, 0, 0, time.UTC),
			}}},
		},
	}
}

func TestRSSExport(t *testing.T) {
	now := time.Date(2026, time.August, 21, 12, 0, 0, 0, time.UTC)
	out, err := RSS(feedDigest(), "https://news.example.test/", now)
	require.NoError(t, err)

	assert.Contains(t, out, "<rss")
	assert.Contains(t, out, "<title>This Week in AI</title>")
	assert.Contains(t, out, "<description>Your curated AI digest · August 21, 2026</description>")
	assert.Contains(t, out, "<link>https://news.example.test/</link>")
	assert.Contains(t, out, "<title>GPT-5 mini released</title>")
	assert.Contains(t, out, "<link>https://example.test/promptdeck</link>")
}

func TestAtomExport(t *testing.T) {
	now := time.Date(2026, time.August, 21, 12, 0, 0, 0, time.UTC)
	out, err := Atom(feedDigest(), "https://news.example.test/", now)
	require.NoError(t, err)

	assert.Contains(t, out, "<feed")
	assert.Contains(t, out, "<title>This Week in AI</title>")
	assert.Contains(t, out, "<title>PromptDeck</title>")
	assert.Contains(t, out, "<name>Alice Chen</name>")
}
