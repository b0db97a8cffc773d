package hackernews

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client is a minimal Hacker News API client.
// Docs: https://github.com/HackerNews/API
type Client struct {
	baseAPI string
	client  *http.Client
}

// NewClient creates a new Hacker News client. baseAPI should be something
// like "https://hacker-news.firebaseio.com/v0". If empty, it defaults to
// the v0 endpoint.
func NewClient(baseAPI string) *Client {
	if strings.TrimSpace(baseAPI) == "" {
		baseAPI = "https://hacker-news.firebaseio.com/v0"
	}
	return &Client{
		baseAPI: strings.TrimRight(baseAPI, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// hnItem mirrors the subset of HN item fields we care about.
type hnItem struct {
	ID          int    `json:"id"`
	Type        string `json:"type"` // story, job, ask, show, poll, etc.
	By          string `json:"by"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Text        string `json:"text"`
	Time        int64  `json:"time"`
	Descendants int    `json:"descendants"`
	Score       int    `json:"score"`
}

// Story is a Hacker News story with its discussion stats.
type Story struct {
	ID       int
	By       string
	Title    string
	URL      string
	Text     string
	Time     time.Time
	Score    int
	Comments int
}

// Stories fetches a list endpoint (topstories, beststories, ...) and
// resolves up to limit IDs into stories. Non-story items are dropped.
func (c *Client) Stories(ctx context.Context, list string, limit int) ([]Story, error) {
	ids, err := c.fetchIDs(ctx, list)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	slog.Info("hackernews: fetching items", "list", list, "count", len(ids))
	return c.itemsByIDs(ctx, ids)
}

// fetchIDs loads a list endpoint such as topstories/beststories.
func (c *Client) fetchIDs(ctx context.Context, list string) ([]int, error) {
	path := fmt.Sprintf("%s/%s.json", c.baseAPI, url.PathEscape(list))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("hackernews: %s status %d", list, resp.StatusCode)
	}
	var ids []int
	if err := json.NewDecoder(resp.Body).Decode(&ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// item fetches a single HN item by ID.
func (c *Client) item(ctx context.Context, id int) (hnItem, error) {
	var it hnItem
	endpoint := fmt.Sprintf("%s/item/%d.json", c.baseAPI, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return it, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return it, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return it, fmt.Errorf("hackernews: item %d status %d", id, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(&it); err != nil {
		return it, err
	}
	return it, nil
}

// itemsByIDs resolves multiple IDs concurrently into stories.
func (c *Client) itemsByIDs(ctx context.Context, ids []int) ([]Story, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	// bounded concurrency
	const maxWorkers = 8
	type result struct {
		idx  int
		item hnItem
		err  error
	}
	out := make([]result, len(ids))
	sem := make(chan struct{}, maxWorkers)
	done := make(chan result, len(ids))
	for i, id := range ids {
		i, id := i, id
		sem <- struct{}{}
		go func() {
			defer func() { <-sem }()
			// Per-item timeout to avoid hanging
			ictx, cancel := context.WithTimeout(ctx, 8*time.Second)
			defer cancel()
			it, err := c.item(ictx, id)
			done <- result{idx: i, item: it, err: err}
		}()
	}
	// wait for all
	for i := 0; i < len(ids); i++ {
		r := <-done
		if r.err != nil {
			// skip failed ones silently; continue
			continue
		}
		out[r.idx] = r
	}
	// collect stories preserving list order
	stories := make([]Story, 0, len(ids))
	for _, r := range out {
		if r.item.ID == 0 || r.item.Type != "story" {
			continue
		}
		stories = append(stories, convertItem(r.item))
	}
	return stories, nil
}

// convertItem maps an hnItem to a Story, defaulting the URL to the HN
// discussion page for text posts.
func convertItem(h hnItem) Story {
	urlStr := strings.TrimSpace(h.URL)
	if urlStr == "" {
		urlStr = fmt.Sprintf("https://news.ycombinator.com/item?id=%d", h.ID)
	}
	return Story{
		ID:       h.ID,
		By:       h.By,
		Title:    h.Title,
		URL:      urlStr,
		Text:     h.Text,
		Time:     time.Unix(h.Time, 0),
		Score:    h.Score,
		Comments: h.Descendants,
	}
}
