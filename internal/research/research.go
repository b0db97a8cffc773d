// Package research collects papers from arXiv, the Hugging Face daily
// papers page, and Papers with Code.
package research

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"github.com/ksasanka/ai-newsletter/internal/config"
	"github.com/ksasanka/ai-newsletter/internal/fetch"
	"github.com/ksasanka/ai-newsletter/internal/htmltext"
	"github.com/ksasanka/ai-newsletter/internal/model"
)

const (
	defaultArxivURL          = "http://export.arxiv.org/api/query"
	defaultHuggingFaceURL    = "https://huggingface.co/papers"
	defaultPapersWithCodeURL = "https://paperswithcode.com/"

	// paperCap limits how many papers are taken from one scraped page.
	paperCap = 20
)

// feed is one resolved research feed: the configured name bound to its
// fetcher.
type feed struct {
	name  string
	fetch func(ctx context.Context, since time.Time) ([]model.ContentItem, error)
}

// Source collects research papers from the configured feeds.
type Source struct {
	feeds  []feed
	client *fetch.Client
	parser *gofeed.Parser
	now    func() time.Time

	arxivURL          string
	huggingFaceURL    string
	papersWithCodeURL string
}

// New creates the research source. Feed names are resolved here, so a
// typo in the configuration fails construction instead of being skipped
// silently on every run.
func New(cfg config.ResearchConfig, client *fetch.Client) (*Source, error) {
	s := &Source{
		client:            client,
		parser:            gofeed.NewParser(),
		now:               time.Now,
		arxivURL:          defaultArxivURL,
		huggingFaceURL:    defaultHuggingFaceURL,
		papersWithCodeURL: defaultPapersWithCodeURL,
	}
	for _, src := range cfg.Sources {
		switch src.Name {
		case "arxiv":
			src := src
			s.feeds = append(s.feeds, feed{name: src.Name, fetch: func(ctx context.Context, since time.Time) ([]model.ContentItem, error) {
				return s.fetchArxiv(ctx, src, since)
			}})
		case "huggingface":
			s.feeds = append(s.feeds, feed{name: src.Name, fetch: s.fetchHuggingFace})
		case "paperswithcode":
			s.feeds = append(s.feeds, feed{name: src.Name, fetch: s.fetchPapersWithCode})
		default:
			return nil, fmt.Errorf("research: unknown source %q", src.Name)
		}
	}
	return s, nil
}

// Name implements collect.Source.
func (s *Source) Name() string { return "research" }

// Fetch collects papers from every feed. A failing feed is skipped; an
// error is returned only when every feed failed.
func (s *Source) Fetch(ctx context.Context, since time.Time) ([]model.ContentItem, error) {
	var (
		all     []model.ContentItem
		lastErr error
		failed  int
	)
	for _, f := range s.feeds {
		items, err := f.fetch(ctx, since)
		if err != nil {
			failed++
			lastErr = fmt.Errorf("%s: %w", f.name, err)
			slog.Warn("research: feed fetch failed", "feed", f.name, "err", err)
			continue
		}
		all = append(all, items...)
	}
	if len(s.feeds) > 0 && failed == len(s.feeds) {
		return nil, lastErr
	}
	return all, nil
}

func (s *Source) fetchArxiv(ctx context.Context, cfg config.ResearchSourceConfig, since time.Time) ([]model.ContentItem, error) {
	q := url.Values{}
	q.Set("search_query", cfg.Query)
	q.Set("start", "0")
	q.Set("max_results", strconv.Itoa(cfg.MaxResults))
	q.Set("sortBy", "submittedDate")
	q.Set("sortOrder", "descending")

	body, err := s.client.Get(ctx, s.arxivURL+"?"+q.Encode())
	if err != nil {
		return nil, err
	}
	result, err := s.parser.ParseString(string(body))
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	var items []model.ContentItem
	for _, entry := range result.Items {
		if entry.PublishedParsed == nil || entry.PublishedParsed.Before(since) {
			continue
		}
		items = append(items, model.ContentItem{
			Title:       htmltext.Strip(entry.Title),
			URL:         entry.Link,
			Description: htmltext.Excerpt(entry.Description),
			Source:      "arXiv",
			PublishedAt: *entry.PublishedParsed,
			Type:        model.TypeResearchPaper,
			Authors:     authorLine(entry.Authors),
		})
	}
	return items, nil
}

// authorLine renders up to three author names, with "et al." standing in
// for the rest.
func authorLine(authors []*gofeed.Person) string {
	if len(authors) == 0 {
		return ""
	}
	names := make([]string, 0, 4)
	for _, a := range authors {
		if len(names) == 3 {
			names = append(names, "et al.")
			break
		}
		names = append(names, a.Name)
	}
	return strings.Join(names, ", ")
}

func (s *Source) fetchHuggingFace(ctx context.Context, _ time.Time) ([]model.ContentItem, error) {
	doc, err := s.client.GetHTML(ctx, s.huggingFaceURL)
	if err != nil {
		return nil, err
	}

	base := fetch.SiteBase(s.huggingFaceURL)
	now := s.now()
	var items []model.ContentItem
	doc.Find("article").EachWithBreak(func(_ int, card *goquery.Selection) bool {
		title := htmltext.Strip(card.Find("h3, h2").First().Text())
		if title == "" {
			return true
		}
		link, _ := card.Find("a[href]").First().Attr("href")
		if link != "" && !strings.HasPrefix(link, "http") {
			link = base + link
		}
		items = append(items, model.ContentItem{
			Title:       title,
			URL:         link,
			Description: htmltext.Excerpt(card.Find("p").First().Text()),
			Source:      "Hugging Face Papers",
			PublishedAt: now,
			Type:        model.TypeResearchPaper,
			Upvotes:     upvoteText(card),
		})
		return len(items) < paperCap
	})
	return items, nil
}

// upvoteText reads the vote counter, a span carrying the "↑" arrow, and
// returns the count portion. Cards without a counter report no metric.
func upvoteText(card *goquery.Selection) model.Metric {
	count := ""
	card.Find("span").EachWithBreak(func(_ int, sp *goquery.Selection) bool {
		text := sp.Text()
		if strings.Contains(text, "↑") {
			count = strings.TrimSpace(strings.ReplaceAll(text, "↑", ""))
			return false
		}
		return true
	})
	return model.Metric(count)
}

func (s *Source) fetchPapersWithCode(ctx context.Context, _ time.Time) ([]model.ContentItem, error) {
	doc, err := s.client.GetHTML(ctx, s.papersWithCodeURL)
	if err != nil {
		return nil, err
	}

	base := fetch.SiteBase(s.papersWithCodeURL)
	now := s.now()
	var items []model.ContentItem
	doc.Find("div.paper-card").EachWithBreak(func(_ int, card *goquery.Selection) bool {
		title := htmltext.Strip(card.Find("h1").First().Text())
		if title == "" {
			title = htmltext.Strip(card.Find("a").First().Text())
		}
		if title == "" {
			return true
		}
		link, _ := card.Find("a[href]").First().Attr("href")
		if link != "" && !strings.HasPrefix(link, "http") {
			link = base + link
		}
		items = append(items, model.ContentItem{
			Title:       title,
			URL:         link,
			Description: htmltext.Excerpt(card.Find("p.item-strip-abstract").First().Text()),
			Source:      "Papers with Code",
			PublishedAt: now,
			Type:        model.TypeResearchPaper,
			HasCode:     hasCodeLink(card),
		})
		return len(items) < paperCap
	})
	return items, nil
}

// hasCodeLink reports whether any anchor in the card advertises code.
func hasCodeLink(card *goquery.Selection) bool {
	found := false
	card.Find("a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		if strings.Contains(strings.ToLower(a.Text()), "code") {
			found = true
			return false
		}
		return true
	})
	return found
}
