// Package github scrapes GitHub trending and topic pages for
// repositories.
package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/ksasanka/ai-newsletter/internal/config"
	"github.com/ksasanka/ai-newsletter/internal/fetch"
	"github.com/ksasanka/ai-newsletter/internal/htmltext"
	"github.com/ksasanka/ai-newsletter/internal/model"
)

const defaultBaseURL = "https://github.com"

// repoCap limits how many repositories are taken from one page.
const repoCap = 10

// Source collects repositories from the trending pages of the configured
// languages and from the configured topic pages.
type Source struct {
	period    string
	languages []string
	topics    []string
	client    *fetch.Client
	baseURL   string
	now       func() time.Time
}

// New creates the GitHub source.
func New(cfg config.GitHubConfig, client *fetch.Client) *Source {
	return &Source{
		period:    cfg.Period,
		languages: cfg.Languages,
		topics:    cfg.Topics,
		client:    client,
		baseURL:   defaultBaseURL,
		now:       time.Now,
	}
}

// Name implements collect.Source.
func (s *Source) Name() string { return "github" }

// Fetch collects repositories from every configured page, deduplicated
// by repository URL. A failing page is skipped; an error is returned
// only when every page failed.
func (s *Source) Fetch(ctx context.Context, _ time.Time) ([]model.ContentItem, error) {
	type page struct {
		url   string
		parse func(*goquery.Document, time.Time) []model.ContentItem
	}
	var pages []page
	for _, lang := range s.languages {
		lang := lang
		pages = append(pages, page{
			url: fmt.Sprintf("%s/trending/%s?since=%s", s.baseURL, lang, url.QueryEscape(s.period)),
			parse: func(doc *goquery.Document, now time.Time) []model.ContentItem {
				return s.parseTrending(doc, lang, now)
			},
		})
	}
	for _, topic := range s.topics {
		topic := topic
		pages = append(pages, page{
			url: s.baseURL + "/topics/" + topic,
			parse: func(doc *goquery.Document, now time.Time) []model.ContentItem {
				return s.parseTopic(doc, topic, now)
			},
		})
	}

	var (
		all     []model.ContentItem
		lastErr error
		failed  int
	)
	seen := make(map[string]struct{})
	now := s.now()
	for _, p := range pages {
		doc, err := s.client.GetHTML(ctx, p.url)
		if err != nil {
			failed++
			lastErr = fmt.Errorf("page %s: %w", p.url, err)
			slog.Warn("github: page fetch failed", "page", p.url, "err", err)
			continue
		}
		for _, it := range p.parse(doc, now) {
			if _, dup := seen[it.URL]; dup {
				continue
			}
			seen[it.URL] = struct{}{}
			all = append(all, it)
		}
	}
	if len(pages) > 0 && failed == len(pages) {
		return nil, lastErr
	}
	return all, nil
}

func (s *Source) parseTrending(doc *goquery.Document, language string, now time.Time) []model.ContentItem {
	var items []model.ContentItem
	doc.Find("article.Box-row").EachWithBreak(func(_ int, card *goquery.Selection) bool {
		link := card.Find("h2 a[href]").First()
		href, ok := link.Attr("href")
		if !ok {
			return true
		}
		name := repoName(link.Text())
		if name == "" {
			return true
		}
		items = append(items, model.ContentItem{
			Title:       name,
			URL:         s.baseURL + href,
			Description: htmltext.Excerpt(card.Find("p").First().Text()),
			Source:      fmt.Sprintf("GitHub Trending (%s)", language),
			PublishedAt: now,
			Type:        model.TypeGitHubRepo,
			Stars:       starCount(card),
		})
		return len(items) < repoCap
	})
	return items
}

func (s *Source) parseTopic(doc *goquery.Document, topic string, now time.Time) []model.ContentItem {
	var items []model.ContentItem
	doc.Find("article.border").EachWithBreak(func(_ int, card *goquery.Selection) bool {
		// The heading holds two anchors, owner and repository; the
		// repository one comes last.
		href, ok := card.Find("h3 a[href]").Last().Attr("href")
		if !ok {
			return true
		}
		name := repoName(card.Find("h3").First().Text())
		if name == "" {
			return true
		}
		items = append(items, model.ContentItem{
			Title:       name,
			URL:         s.baseURL + href,
			Description: htmltext.Excerpt(card.Find("p").First().Text()),
			Source:      fmt.Sprintf("GitHub Topic (%s)", topic),
			PublishedAt: now,
			Type:        model.TypeGitHubRepo,
			Stars:       starCount(card),
		})
		return len(items) < repoCap
	})
	return items
}

// repoName flattens a repository heading into "owner/repo". Trending
// headings wrap the two parts around a slash with heavy whitespace.
func repoName(text string) string {
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '\n' || r == '\t' {
			return -1
		}
		return r
	}, text)
}

// starCount reads the counter that sits next to the star icon. The text
// is kept raw; formatted values like "1.2k" parse at scoring time.
// Cards without the icon report no metric.
func starCount(card *goquery.Selection) model.Metric {
	icon := card.Find("svg.octicon-star").First()
	if icon.Length() == 0 {
		return ""
	}
	return model.Metric(strings.TrimSpace(icon.Parent().Text()))
}
