// Package producthunt scrapes Product Hunt for fresh product launches.
package producthunt

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"github.com/PuerkitoBio/goquery"

	"github.com/ksasanka/ai-newsletter/internal/config"
	"github.com/ksasanka/ai-newsletter/internal/fetch"
	"github.com/ksasanka/ai-newsletter/internal/htmltext"
	"github.com/ksasanka/ai-newsletter/internal/model"
)

const defaultBaseURL = "https://www.producthunt.com"

// productCap limits how many products are taken from one page.
const productCap = 20

// Source collects product launches from the Product Hunt front page and
// the configured topic pages.
type Source struct {
	topics     []string
	minUpvotes int
	client     *fetch.Client
	baseURL    string
	now        func() time.Time
}

// New creates the Product Hunt source.
func New(cfg config.ProductHuntConfig, client *fetch.Client) *Source {
	return &Source{
		topics:     cfg.Topics,
		minUpvotes: cfg.MinUpvotes,
		client:     client,
		baseURL:    defaultBaseURL,
		now:        time.Now,
	}
}

// Name implements collect.Source.
func (s *Source) Name() string { return "producthunt" }

// Fetch collects products from the front page and every topic page,
// deduplicated by product name. A failing page is skipped; an error is
// returned only when every page failed.
func (s *Source) Fetch(ctx context.Context, _ time.Time) ([]model.ContentItem, error) {
	pages := []string{s.baseURL + "/"}
	for _, topic := range s.topics {
		pages = append(pages, s.baseURL+"/topics/"+topic)
	}

	var (
		all     []model.ContentItem
		lastErr error
		failed  int
	)
	seen := make(map[string]struct{})
	for _, page := range pages {
		items, err := s.scrapePage(ctx, page)
		if err != nil {
			failed++
			lastErr = fmt.Errorf("page %s: %w", page, err)
			slog.Warn("producthunt: page fetch failed", "page", page, "err", err)
			continue
		}
		for _, it := range items {
			if _, dup := seen[it.Title]; dup {
				continue
			}
			seen[it.Title] = struct{}{}
			all = append(all, it)
		}
	}
	if failed == len(pages) {
		return nil, lastErr
	}
	return all, nil
}

func (s *Source) scrapePage(ctx context.Context, page string) ([]model.ContentItem, error) {
	doc, err := s.client.GetHTML(ctx, page)
	if err != nil {
		return nil, err
	}

	cards := doc.Find(`div[data-test="post-item"]`)
	if cards.Length() == 0 {
		cards = doc.Find("article")
	}

	now := s.now()
	var items []model.ContentItem
	cards.EachWithBreak(func(_ int, card *goquery.Selection) bool {
		if it, ok := s.parseCard(card, now); ok {
			items = append(items, it)
		}
		return len(items) < productCap
	})
	return items, nil
}

func (s *Source) parseCard(card *goquery.Selection, now time.Time) (model.ContentItem, bool) {
	title := htmltext.Strip(card.Find(`h3, h2, a[data-test="post-name"]`).First().Text())
	if title == "" {
		return model.ContentItem{}, false
	}

	link, _ := card.Find("a[href]").First().Attr("href")
	if link != "" && !strings.HasPrefix(link, "http") {
		link = s.baseURL + link
	}

	votes := model.ParseCount(digits(card.Find(`[data-test="vote-button"]`).First().Text()))
	if votes < s.minUpvotes {
		return model.ContentItem{}, false
	}

	tagline := card.Find(`p, [data-test="post-tagline"]`).First().Text()
	image, _ := card.Find("img").First().Attr("src")

	return model.ContentItem{
		Title:       title,
		URL:         link,
		Description: htmltext.Excerpt(tagline),
		Source:      "Product Hunt",
		PublishedAt: now,
		Type:        model.TypeProductLaunch,
		Upvotes:     model.MetricFromInt(votes),
		ImageURL:    image,
	}, true
}

// digits keeps only the digit runes of s, the way vote buttons mix the
// count with surrounding label text.
func digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
