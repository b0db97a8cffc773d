package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ksasanka/ai-newsletter/internal/config"
	"github.com/ksasanka/ai-newsletter/internal/digest"
)

type stubSummarizer struct {
	intro      string
	introErr   error
	summaryErr error
	introCalls int
	itemTitles []string
}

func (s *stubSummarizer) DigestIntro(_ context.Context, headlines []string) (string, error) {
	s.introCalls++
	if s.introErr != nil {
		return "", s.introErr
	}
	return s.intro, nil
}

func (s *stubSummarizer) ItemSummary(_ context.Context, title, url string) (string, error) {
	s.itemTitles = append(s.itemTitles, title)
	if s.summaryErr != nil {
		return "", s.summaryErr
	}
	return "About " + title + ".", nil
}

func twoItemDigest() digest.Digest {
	return digest.Digest{
		Date: "August 21, 2026",
		Sections: []digest.Section{{
			Title: "🤖 AI Models & Research",
			Items: []digest.Item{
				{Title: "GPT-5 mini released", URL: "https://example.test/gpt5", Description: "Already described."},
				{Title: "Crew runner", URL: "https://example.test/crew"},
			},
		}},
	}
}

func TestDecorateSetsIntroAndFillsMissingDescriptions(t *testing.T) {
	s := &stubSummarizer{intro: "Agents ate the week."}
	d := twoItemDigest()

	Decorate(context.Background(), s, &d)

	assert.Equal(t, "Agents ate the week.", d.Intro)
	assert.Equal(t, 1, s.introCalls)
	// Only the undescribed item gets a summary call.
	assert.Equal(t, []string{"Crew runner"}, s.itemTitles)
	assert.Equal(t, "Already described.", d.Sections[0].Items[0].Description)
	assert.Equal(t, "About Crew runner.", d.Sections[0].Items[1].Description)
}

func TestDecorateIntroFailureDegrades(t *testing.T) {
	s := &stubSummarizer{introErr: errors.New("rate limited")}
	d := twoItemDigest()

	Decorate(context.Background(), s, &d)

	assert.Empty(t, d.Intro)
	assert.Equal(t, "About Crew runner.", d.Sections[0].Items[1].Description)
}

func TestDecorateItemFailureLeavesDescriptionEmpty(t *testing.T) {
	s := &stubSummarizer{intro: "Note.", summaryErr: errors.New("boom")}
	d := twoItemDigest()

	Decorate(context.Background(), s, &d)

	assert.Equal(t, "Note.", d.Intro)
	assert.Empty(t, d.Sections[0].Items[1].Description)
}

func TestDecorateNilSummarizerIsNoop(t *testing.T) {
	d := twoItemDigest()
	Decorate(context.Background(), nil, &d)
	assert.Empty(t, d.Intro)
}

func TestDecorateEmptyDigestMakesNoCalls(t *testing.T) {
	s := &stubSummarizer{intro: "Note."}
	d := digest.Digest{Date: "August 21, 2026"}
	Decorate(context.Background(), s, &d)
	assert.Zero(t, s.introCalls)
	assert.Empty(t, d.Intro)
}

func TestOpenAIDigestIntroRoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1756000000,
			"model": "gpt-4o-mini",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "  A week of agents.  "}, "finish_reason": "stop"}]
		}`)
	}))
	defer srv.Close()

	c := NewOpenAI(config.OpenAIConfig{APIKey: "test-key", Model: "gpt-4o-mini", BaseURL: srv.URL})
	out, err := c.DigestIntro(context.Background(), []string{"GPT-5 mini released"})
	require.NoError(t, err)
	assert.Equal(t, "A week of agents.", out)
}

func TestOpenAIDigestIntroNoHeadlines(t *testing.T) {
	c := NewOpenAI(config.OpenAIConfig{APIKey: "test-key", Model: "gpt-4o-mini"})
	out, err := c.DigestIntro(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}
