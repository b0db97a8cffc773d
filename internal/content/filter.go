package content

import (
	"strings"

	"github.com/ksasanka/ai-newsletter/internal/config"
	"github.com/ksasanka/ai-newsletter/internal/model"
)

// aiOverrides spare an otherwise excluded item when its text still talks
// about AI.
var aiOverrides = []string{"ai", "machine learning"}

// Filter drops excluded and (optionally) engagement-less items and marks
// items from outside the trusted domains.
type Filter struct {
	exclude           []string
	trustedDomains    []string
	requireEngagement bool
}

func NewFilter(cfg config.FilteringConfig) *Filter {
	return &Filter{
		exclude:           normalizeKeywords(cfg.ExcludeKeywords),
		trustedDomains:    normalizeKeywords(cfg.TrustedDomains),
		requireEngagement: cfg.RequireEngagement,
	}
}

// Apply runs the checks in order: exclusion, engagement, trust. Trust is a
// soft signal; untrusted items are kept but marked, which costs them the
// ranking trust bonus.
func (f *Filter) Apply(items []model.ContentItem) []model.ContentItem {
	out := make([]model.ContentItem, 0, len(items))
	for _, it := range items {
		if f.shouldExclude(it) {
			continue
		}
		if f.requireEngagement && !it.HasEngagement() {
			continue
		}
		if !f.trusted(it.URL) {
			it.Untrusted = true
		}
		out = append(out, it)
	}
	return out
}

func (f *Filter) shouldExclude(it model.ContentItem) bool {
	text := matchText(it)
	for _, kw := range f.exclude {
		if !strings.Contains(text, kw) {
			continue
		}
		for _, ov := range aiOverrides {
			if strings.Contains(text, ov) {
				return false
			}
		}
		return true
	}
	return false
}

// trusted reports whether the URL belongs to a trusted domain. An empty
// trusted list trusts everything.
func (f *Filter) trusted(rawURL string) bool {
	if len(f.trustedDomains) == 0 {
		return true
	}
	u := strings.ToLower(rawURL)
	for _, d := range f.trustedDomains {
		if strings.Contains(u, d) {
			return true
		}
	}
	return false
}
