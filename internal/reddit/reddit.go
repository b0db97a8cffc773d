// Package reddit collects hot posts from AI subreddits through the public
// JSON API; no authentication is needed for public subs.
package reddit

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ksasanka/ai-newsletter/internal/config"
	"github.com/ksasanka/ai-newsletter/internal/fetch"
	"github.com/ksasanka/ai-newsletter/internal/htmltext"
	"github.com/ksasanka/ai-newsletter/internal/model"
)

const defaultBaseURL = "https://www.reddit.com"

// listing mirrors the subset of the Reddit listing payload we care about.
type listing struct {
	Data struct {
		Children []struct {
			Data post `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type post struct {
	Title       string  `json:"title"`
	Permalink   string  `json:"permalink"`
	URL         string  `json:"url"`
	Selftext    string  `json:"selftext"`
	Ups         int     `json:"ups"`
	NumComments int     `json:"num_comments"`
	CreatedUTC  float64 `json:"created_utc"`
	Thumbnail   string  `json:"thumbnail"`
}

// Source collects posts from the configured subreddits.
type Source struct {
	cfg     config.RedditConfig
	client  *fetch.Client
	baseURL string
}

func New(cfg config.RedditConfig, client *fetch.Client) *Source {
	return &Source{cfg: cfg, client: client, baseURL: defaultBaseURL}
}

func (s *Source) Name() string { return "reddit" }

// Fetch pulls the hot listing of every configured subreddit and keeps
// posts above the upvote gate and inside the window. A subreddit that
// fails only costs its own posts.
func (s *Source) Fetch(ctx context.Context, since time.Time) ([]model.ContentItem, error) {
	out := make([]model.ContentItem, 0, 32)
	var lastErr error
	failed := 0
	for _, sub := range s.cfg.Subreddits {
		posts, err := s.fetchSubreddit(ctx, sub, since)
		if err != nil {
			slog.Warn("reddit: subreddit fetch failed", "subreddit", sub, "err", err)
			lastErr = err
			failed++
			continue
		}
		out = append(out, posts...)
	}
	if len(s.cfg.Subreddits) > 0 && failed == len(s.cfg.Subreddits) {
		return nil, lastErr
	}
	return out, nil
}

func (s *Source) fetchSubreddit(ctx context.Context, sub string, since time.Time) ([]model.ContentItem, error) {
	url := fmt.Sprintf("%s/r/%s/hot.json?limit=50", s.baseURL, sub)
	var l listing
	if err := s.client.GetJSON(ctx, url, &l); err != nil {
		return nil, err
	}

	items := make([]model.ContentItem, 0, len(l.Data.Children))
	for _, ch := range l.Data.Children {
		p := ch.Data
		if p.Ups < s.cfg.MinUpvotes {
			continue
		}
		created := time.Unix(int64(p.CreatedUTC), 0)
		if created.Before(since) {
			continue
		}
		items = append(items, model.ContentItem{
			Title:       p.Title,
			URL:         s.baseURL + p.Permalink,
			Description: htmltext.Excerpt(p.Selftext),
			Source:      "r/" + sub,
			PublishedAt: created,
			Type:        model.TypeRedditPost,
			Upvotes:     model.MetricFromInt(p.Ups),
			Comments:    model.MetricFromInt(p.NumComments),
			ImageURL:    postImage(p),
		})
	}
	return items, nil
}

// postImage picks the post thumbnail when it is a real URL (reddit uses
// placeholders like "self" and "default"), falling back to the link
// itself when it points at an image file.
func postImage(p post) string {
	if strings.HasPrefix(p.Thumbnail, "http") {
		return p.Thumbnail
	}
	for _, ext := range []string{".jpg", ".png", ".gif"} {
		if strings.HasSuffix(p.URL, ext) {
			return p.URL
		}
	}
	return ""
}
