package cmd

import (
	"context"
	"log/slog"
	"time"

	"github.com/ksasanka/ai-newsletter/internal/ai"
	"github.com/ksasanka/ai-newsletter/internal/blogs"
	"github.com/ksasanka/ai-newsletter/internal/cache"
	"github.com/ksasanka/ai-newsletter/internal/collect"
	"github.com/ksasanka/ai-newsletter/internal/config"
	"github.com/ksasanka/ai-newsletter/internal/content"
	"github.com/ksasanka/ai-newsletter/internal/digest"
	"github.com/ksasanka/ai-newsletter/internal/fetch"
	"github.com/ksasanka/ai-newsletter/internal/github"
	"github.com/ksasanka/ai-newsletter/internal/hackernews"
	"github.com/ksasanka/ai-newsletter/internal/images"
	"github.com/ksasanka/ai-newsletter/internal/producthunt"
	"github.com/ksasanka/ai-newsletter/internal/reddit"
	"github.com/ksasanka/ai-newsletter/internal/redisclient"
	"github.com/ksasanka/ai-newsletter/internal/research"
)

// buildRegistry registers every enabled source. Registration order is
// the merge order of collected items, so it stays fixed here.
func buildRegistry(cfg *config.Config) *collect.Registry {
	newClient := func(delay time.Duration) *fetch.Client {
		return fetch.New(cfg.Advanced.HTTPTimeout, delay, cfg.Advanced.UserAgent)
	}

	r := collect.NewRegistry()
	if c := cfg.Sources.CompanyBlogs; c.Enabled {
		r.Register("company_blogs", func() (collect.Source, error) {
			return blogs.New(c, newClient(c.RequestDelay)), nil
		})
	}
	if c := cfg.Sources.Research; c.Enabled {
		r.Register("research", func() (collect.Source, error) {
			return research.New(c, newClient(c.RequestDelay))
		})
	}
	if c := cfg.Sources.Reddit; c.Enabled {
		r.Register("reddit", func() (collect.Source, error) {
			return reddit.New(c, newClient(c.RequestDelay)), nil
		})
	}
	if c := cfg.Sources.HackerNews; c.Enabled {
		r.Register("hackernews", func() (collect.Source, error) {
			return hackernews.New(c), nil
		})
	}
	if c := cfg.Sources.ProductHunt; c.Enabled {
		r.Register("producthunt", func() (collect.Source, error) {
			return producthunt.New(c, newClient(c.RequestDelay)), nil
		})
	}
	if c := cfg.Sources.GitHub; c.Enabled {
		r.Register("github", func() (collect.Source, error) {
			return github.New(c, newClient(c.RequestDelay)), nil
		})
	}
	return r
}

// collectAndCurate runs collection over the configured lookback window
// and feeds everything through the curation pipeline. When redis is
// configured, each source is wrapped with the day-keyed cache.
func collectAndCurate(ctx context.Context, cfg *config.Config) (content.Result, error) {
	sources, err := buildRegistry(cfg).Sources()
	if err != nil {
		return content.Result{}, err
	}

	if cfg.Redis.Addr != "" {
		rdb := redisclient.New(cfg.Redis)
		defer rdb.Close()
		store := cache.NewStore(rdb, cfg.Redis.CacheTTL)
		for i, s := range sources {
			sources[i] = collect.Cached(s, store)
		}
	}

	since := time.Now().AddDate(0, 0, -cfg.Content.DaysToLookBack)
	slog.Info("collector: starting", "sources", len(sources), "since", since.Format("2006-01-02"))
	col := collect.NewCollector(sources).Collect(ctx, since)

	res := content.NewPipeline(cfg).Run(col.Items)
	slog.Info("pipeline: curation done", "collected", len(col.Items), "kept", res.Total)
	return res, nil
}

// composeDigest turns a curated result into the final digest: build the
// view, then the optional editorial and image passes.
func composeDigest(ctx context.Context, cfg *config.Config, res content.Result) digest.Digest {
	d := digest.NewBuilder(cfg).Build(res)
	if cfg.OpenAI.APIKey != "" {
		ai.Decorate(ctx, ai.NewOpenAI(cfg.OpenAI), &d)
	}
	if cfg.Content.InlineImages {
		images.NewInliner().Inline(ctx, &d)
	}
	return d
}
