package hackernews

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/ksasanka/ai-newsletter/internal/config"
	"github.com/ksasanka/ai-newsletter/internal/htmltext"
	"github.com/ksasanka/ai-newsletter/internal/model"
)

// Source collects AI stories from Hacker News. Stories come from the
// configured list endpoints and pass a score gate and a keyword prefilter
// before entering the pipeline.
type Source struct {
	cfg      config.HackerNewsConfig
	client   *Client
	keywords []string
}

func New(cfg config.HackerNewsConfig) *Source {
	keywords := make([]string, 0, len(cfg.Keywords))
	for _, kw := range cfg.Keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			keywords = append(keywords, kw)
		}
	}
	return &Source{cfg: cfg, client: NewClient(cfg.BaseURL), keywords: keywords}
}

func (s *Source) Name() string { return "hackernews" }

// Fetch pulls every configured list, dropping stories below the score
// gate, outside the window, or missing all keywords. Stories appearing on
// several lists are kept once, at their first position. A list that fails
// only costs its own stories unless every list fails.
func (s *Source) Fetch(ctx context.Context, since time.Time) ([]model.ContentItem, error) {
	seen := make(map[int]bool)
	out := make([]model.ContentItem, 0, 32)
	var lastErr error
	failed := 0
	for _, list := range s.cfg.Lists {
		stories, err := s.client.Stories(ctx, list, s.cfg.LimitPerList)
		if err != nil {
			slog.Warn("hackernews: list fetch failed", "list", list, "err", err)
			lastErr = err
			failed++
			continue
		}
		for _, st := range stories {
			if seen[st.ID] {
				continue
			}
			seen[st.ID] = true
			if st.Time.Before(since) {
				continue
			}
			if st.Score < s.cfg.MinScore {
				continue
			}
			if !s.matches(st) {
				continue
			}
			out = append(out, s.convert(st))
		}
	}
	if failed == len(s.cfg.Lists) && lastErr != nil {
		return nil, lastErr
	}
	return out, nil
}

// matches checks the keyword prefilter against title and text. No
// configured keywords means no prefilter.
func (s *Source) matches(st Story) bool {
	if len(s.keywords) == 0 {
		return true
	}
	title := strings.ToLower(st.Title)
	text := strings.ToLower(st.Text)
	for _, kw := range s.keywords {
		if strings.Contains(title, kw) || strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func (s *Source) convert(st Story) model.ContentItem {
	return model.ContentItem{
		Title:       st.Title,
		URL:         st.URL,
		Description: htmltext.Excerpt(st.Text),
		Source:      "Hacker News",
		PublishedAt: st.Time,
		Type:        model.TypeHNStory,
		Score:       model.MetricFromInt(st.Score),
		Comments:    model.MetricFromInt(st.Comments),
	}
}
