// Package blogs collects posts from company blogs and news pages,
// preferring each blog's feed and falling back to scraping the page.
package blogs

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"github.com/ksasanka/ai-newsletter/internal/config"
	"github.com/ksasanka/ai-newsletter/internal/fetch"
	"github.com/ksasanka/ai-newsletter/internal/htmltext"
	"github.com/ksasanka/ai-newsletter/internal/model"
)

// pageCap limits how many posts the HTML fallback takes from one page.
const pageCap = 10

// Source collects blog posts from the configured blogs.
type Source struct {
	blogs  []config.BlogConfig
	client *fetch.Client
	parser *gofeed.Parser
	now    func() time.Time
}

// New creates the company blog source.
func New(cfg config.CompanyBlogsConfig, client *fetch.Client) *Source {
	return &Source{
		blogs:  cfg.Blogs,
		client: client,
		parser: gofeed.NewParser(),
		now:    time.Now,
	}
}

// Name implements collect.Source.
func (s *Source) Name() string { return "company_blogs" }

// Fetch collects posts published since the given time. A blog that fails
// is skipped; an error is returned only when every blog failed.
func (s *Source) Fetch(ctx context.Context, since time.Time) ([]model.ContentItem, error) {
	var (
		all     []model.ContentItem
		lastErr error
		failed  int
	)
	for _, blog := range s.blogs {
		items, err := s.fetchBlog(ctx, blog, since)
		if err != nil {
			failed++
			lastErr = fmt.Errorf("blog %s: %w", blog.Name, err)
			slog.Warn("blogs: blog fetch failed", "blog", blog.Name, "err", err)
			continue
		}
		all = append(all, items...)
	}
	if len(s.blogs) > 0 && failed == len(s.blogs) {
		return nil, lastErr
	}
	return all, nil
}

// fetchBlog reads the blog's feed when one is configured and falls back
// to scraping the page when the feed is missing, broken, or has nothing
// inside the window.
func (s *Source) fetchBlog(ctx context.Context, blog config.BlogConfig, since time.Time) ([]model.ContentItem, error) {
	if blog.RSS != "" {
		items, err := s.fetchFeed(ctx, blog, since)
		if err != nil {
			slog.Warn("blogs: feed fetch failed, scraping page", "blog", blog.Name, "err", err)
		} else if len(items) > 0 {
			return items, nil
		}
	}
	return s.scrapePage(ctx, blog)
}

func (s *Source) fetchFeed(ctx context.Context, blog config.BlogConfig, since time.Time) ([]model.ContentItem, error) {
	body, err := s.client.Get(ctx, blog.RSS)
	if err != nil {
		return nil, err
	}
	feed, err := s.parser.ParseString(string(body))
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	var items []model.ContentItem
	for _, entry := range feed.Items {
		// Entries with no parseable timestamp count as current.
		published := s.now()
		if entry.PublishedParsed != nil {
			published = *entry.PublishedParsed
		} else if entry.UpdatedParsed != nil {
			published = *entry.UpdatedParsed
		}
		if published.Before(since) {
			continue
		}

		description := entry.Description
		if description == "" {
			description = entry.Content
		}
		items = append(items, model.ContentItem{
			Title:       htmltext.Strip(entry.Title),
			URL:         entry.Link,
			Description: htmltext.Excerpt(description),
			Source:      blog.Name,
			PublishedAt: published,
			Type:        model.TypeBlogPost,
			ImageURL:    entryImage(entry),
		})
	}
	return items, nil
}

// entryImage pulls an image URL out of a feed entry, trying the media
// extensions, then enclosures, then the first <img> in the content.
func entryImage(entry *gofeed.Item) string {
	if media, ok := entry.Extensions["media"]; ok {
		for _, e := range media["content"] {
			if e.Attrs["medium"] == "image" && e.Attrs["url"] != "" {
				return e.Attrs["url"]
			}
		}
		for _, e := range media["thumbnail"] {
			if e.Attrs["url"] != "" {
				return e.Attrs["url"]
			}
		}
	}
	for _, enc := range entry.Enclosures {
		if strings.Contains(enc.Type, "image") && enc.URL != "" {
			return enc.URL
		}
	}
	if entry.Content != "" {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(entry.Content))
		if err == nil {
			if src, ok := doc.Find("img").First().Attr("src"); ok {
				return src
			}
		}
	}
	return ""
}

func (s *Source) scrapePage(ctx context.Context, blog config.BlogConfig) ([]model.ContentItem, error) {
	doc, err := s.client.GetHTML(ctx, blog.URL)
	if err != nil {
		return nil, err
	}

	now := s.now()
	var items []model.ContentItem
	doc.Find("article, div").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if !postLike(sel) {
			return true
		}
		title := htmltext.Strip(sel.Find("h1, h2, h3").First().Text())
		if title == "" {
			return true
		}
		link, _ := sel.Find("a[href]").First().Attr("href")
		if link == "" {
			return true
		}
		if !strings.HasPrefix(link, "http") {
			link = strings.TrimRight(blog.URL, "/") + "/" + strings.TrimLeft(link, "/")
		}
		image, _ := sel.Find("img").First().Attr("src")

		items = append(items, model.ContentItem{
			Title:       title,
			URL:         link,
			Description: htmltext.Excerpt(sel.Find("p").First().Text()),
			Source:      blog.Name,
			PublishedAt: now,
			Type:        model.TypeBlogPost,
			ImageURL:    image,
		})
		return len(items) < pageCap
	})
	return items, nil
}

// postLike reports whether an element looks like a blog post container.
func postLike(sel *goquery.Selection) bool {
	class, _ := sel.Attr("class")
	class = strings.ToLower(class)
	return strings.Contains(class, "post") || strings.Contains(class, "article")
}
