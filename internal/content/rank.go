package content

import (
	"math"
	"sort"
	"time"

	"github.com/ksasanka/ai-newsletter/internal/config"
	"github.com/ksasanka/ai-newsletter/internal/model"
)

// Ranker scores items and sorts them best-first. Scoring is additive:
// category priority, recency, capped engagement, source trust, and small
// bonuses for research items and items shipping code.
type Ranker struct {
	weights config.RankingConfig
	now     func() time.Time
}

func NewRanker(weights config.RankingConfig) *Ranker {
	return &Ranker{weights: weights, now: time.Now}
}

// Rank returns the items sorted by descending score. The sort is stable,
// so equal scores keep their input order. Input is not mutated; scores are
// attached to the returned copies as CategoryScore.
func (r *Ranker) Rank(items []model.ContentItem, priority int) []model.ContentItem {
	out := make([]model.ContentItem, len(items))
	copy(out, items)
	for i := range out {
		out[i].CategoryScore = r.Score(out[i], priority)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CategoryScore > out[j].CategoryScore
	})
	return out
}

// Score computes the ranking score of one item within a category of the
// given priority.
func (r *Ranker) Score(it model.ContentItem, priority int) float64 {
	s := float64((6 - priority) * 10)
	if !it.PublishedAt.IsZero() {
		s += recencyPoints(daysOld(r.now(), it.PublishedAt))
	}
	s += engagementPoints(it.Upvotes, r.weights.Upvotes)
	s += engagementPoints(it.Score, r.weights.Score)
	s += engagementPoints(it.Stars, r.weights.Stars)
	s += engagementPoints(it.Comments, r.weights.Comments)
	if !it.Untrusted {
		s += 10
	}
	if it.Type.IsResearch() {
		s += 5
	}
	if it.HasCode {
		s += 5
	}
	return s
}

// daysOld is the item age in whole days, floored, so a future-dated item
// comes out negative and earns no recency points.
func daysOld(now, published time.Time) int {
	return int(math.Floor(now.Sub(published).Hours() / 24))
}

func recencyPoints(days int) float64 {
	switch days {
	case 0:
		return 20
	case 1:
		return 15
	case 2:
		return 10
	case 3:
		return 5
	}
	return 0
}

// engagementPoints converts a raw count into points: count/Per capped at
// Cap, never negative.
func engagementPoints(m model.Metric, w config.EngagementWeight) float64 {
	if w.Per <= 0 {
		return 0
	}
	p := float64(m.Value()) / w.Per
	if p > w.Cap {
		p = w.Cap
	}
	return p
}
