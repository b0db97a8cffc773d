package collect

import (
	"context"
	"log/slog"
	"time"

	"github.com/ksasanka/ai-newsletter/internal/model"
)

// ItemCache is the slice of the redis store the cached source needs.
type ItemCache interface {
	GetItems(ctx context.Context, source, day string) ([]model.ContentItem, bool, error)
	PutItems(ctx context.Context, source, day string, items []model.ContentItem) error
}

// Cached wraps a source with a cache keyed by source name and collection
// day, so that back-to-back runs (a preview followed by the real send) do
// not hit the live sites twice. Cache errors degrade to a live fetch.
func Cached(s Source, cache ItemCache) Source {
	return &cachedSource{inner: s, cache: cache}
}

type cachedSource struct {
	inner Source
	cache ItemCache
}

func (c *cachedSource) Name() string { return c.inner.Name() }

func (c *cachedSource) Fetch(ctx context.Context, since time.Time) ([]model.ContentItem, error) {
	day := since.UTC().Format("2006-01-02")
	items, ok, err := c.cache.GetItems(ctx, c.inner.Name(), day)
	if err != nil {
		slog.Warn("collector: cache read failed", "source", c.inner.Name(), "err", err)
	} else if ok {
		slog.Info("collector: cache hit", "source", c.inner.Name(), "items", len(items))
		return items, nil
	}
	items, err = c.inner.Fetch(ctx, since)
	if err != nil {
		return nil, err
	}
	if err := c.cache.PutItems(ctx, c.inner.Name(), day, items); err != nil {
		slog.Warn("collector: cache write failed", "source", c.inner.Name(), "err", err)
	}
	return items, nil
}
