package content

import (
	"github.com/ksasanka/ai-newsletter/internal/config"
	"github.com/ksasanka/ai-newsletter/internal/model"
)

// Pipeline runs the full curation flow over the flattened collection
// output: bucket items into categories, then per category filter,
// deduplicate, rank and truncate.
type Pipeline struct {
	categories  []config.Category
	categorizer *Categorizer
	filter      *Filter
	deduper     *Deduper // nil when deduplication is disabled
	ranker      *Ranker
	maxItems    int
}

func NewPipeline(cfg *config.Config) *Pipeline {
	cats := cfg.OrderedCategories()
	p := &Pipeline{
		categories:  cats,
		categorizer: NewCategorizer(cats),
		filter:      NewFilter(cfg.Filtering),
		ranker:      NewRanker(cfg.Ranking),
		maxItems:    cfg.Content.MaxItemsPerCategory,
	}
	if cfg.Filtering.Deduplicate {
		p.deduper = NewDeduper(cfg.Filtering.SimilarityThreshold)
	}
	return p
}

// Section is one category's curated items, ready for the digest.
type Section struct {
	Name  string
	Items []model.ContentItem
}

// Tally records how many items survived each stage of a category's run.
type Tally struct {
	Bucketed int
	Filtered int
	Deduped  int
	Kept     int
}

// Result is what a pipeline run produces. Sections holds only non-empty
// categories, ordered by priority; Tallies covers every enabled category.
type Result struct {
	Sections []Section
	Tallies  map[string]Tally
	Total    int
}

// Empty reports whether the run kept no items at all.
func (r Result) Empty() bool { return r.Total == 0 }

// Run curates the collected items. Items are copied into each matching
// category bucket, so the per-category stages never see each other's
// annotations. An empty input produces an empty result, not an error.
func (p *Pipeline) Run(items []model.ContentItem) Result {
	buckets := make(map[string][]model.ContentItem, len(p.categories))
	for _, c := range p.categories {
		buckets[c.Name] = nil
	}
	for _, it := range items {
		for _, name := range p.categorizer.Categorize(it) {
			if _, ok := buckets[name]; ok {
				buckets[name] = append(buckets[name], it)
			}
		}
	}

	res := Result{Tallies: make(map[string]Tally, len(p.categories))}
	for _, c := range p.categories {
		in := buckets[c.Name]
		t := Tally{Bucketed: len(in)}

		out := p.filter.Apply(in)
		t.Filtered = len(out)

		if p.deduper != nil {
			out = p.deduper.Deduplicate(out)
		}
		t.Deduped = len(out)

		out = p.ranker.Rank(out, c.Priority)
		if p.maxItems > 0 && len(out) > p.maxItems {
			out = out[:p.maxItems]
		}
		t.Kept = len(out)

		res.Tallies[c.Name] = t
		res.Total += len(out)
		if len(out) > 0 {
			res.Sections = append(res.Sections, Section{Name: c.Name, Items: out})
		}
	}
	return res
}
