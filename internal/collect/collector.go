// Package collect runs the source adapters and merges what they found.
package collect

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ksasanka/ai-newsletter/internal/model"
)

// Source produces content items newer than a given time.
type Source interface {
	Name() string
	Fetch(ctx context.Context, since time.Time) ([]model.ContentItem, error)
}

// Factory builds a source at startup.
type Factory func() (Source, error)

// Registry maps source identifiers to factories. Registration order is
// the merge order of collected items, which keeps runs deterministic.
type Registry struct {
	names     []string
	factories map[string]Factory
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a source factory under a unique identifier.
func (r *Registry) Register(name string, f Factory) {
	if _, dup := r.factories[name]; dup {
		panic("collect: duplicate source " + name)
	}
	r.names = append(r.names, name)
	r.factories[name] = f
}

// Names returns the registered identifiers in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Sources builds every registered source, in registration order.
func (r *Registry) Sources() ([]Source, error) {
	out := make([]Source, 0, len(r.names))
	for _, name := range r.names {
		s, err := r.factories[name]()
		if err != nil {
			return nil, fmt.Errorf("collect: build source %s: %w", name, err)
		}
		out = append(out, s)
	}
	return out, nil
}

// Report describes one source's collection run.
type Report struct {
	Source  string
	Count   int
	Elapsed time.Duration
	Err     error
}

// Result is the merged collection output plus per-source reports, both in
// source order.
type Result struct {
	Items   []model.ContentItem
	Reports []Report
}

// Collector fetches from all sources concurrently. Sources are
// independent, so a failing one only costs its own items.
type Collector struct {
	sources []Source
}

func NewCollector(sources []Source) *Collector {
	return &Collector{sources: sources}
}

// Collect runs every source and merges the results in source order,
// regardless of which finished first.
func (c *Collector) Collect(ctx context.Context, since time.Time) Result {
	type slot struct {
		items  []model.ContentItem
		report Report
	}
	slots := make([]slot, len(c.sources))

	var wg sync.WaitGroup
	for i, s := range c.sources {
		wg.Add(1)
		go func(i int, s Source) {
			defer wg.Done()
			start := time.Now()
			items, err := s.Fetch(ctx, since)
			slots[i] = slot{items: items, report: Report{
				Source:  s.Name(),
				Count:   len(items),
				Elapsed: time.Since(start),
				Err:     err,
			}}
		}(i, s)
	}
	wg.Wait()

	var res Result
	for _, sl := range slots {
		if sl.report.Err != nil {
			slog.Warn("collector: source failed", "source", sl.report.Source, "err", sl.report.Err)
		} else {
			slog.Info("collector: source done", "source", sl.report.Source, "items", sl.report.Count, "elapsed", sl.report.Elapsed)
		}
		res.Reports = append(res.Reports, sl.report)
		res.Items = append(res.Items, sl.items...)
	}
	return res
}
