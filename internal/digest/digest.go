// Package digest turns a curated pipeline result into the rendered
// newsletter: an HTML document for mail, and RSS/Atom documents for the
// feed command.
package digest

import (
	"strings"
	"time"
	"unicode"

	"github.com/ksasanka/ai-newsletter/internal/config"
	"github.com/ksasanka/ai-newsletter/internal/content"
	"github.com/ksasanka/ai-newsletter/internal/model"
)

// defaultTitles are the stock section headings for the built-in
// categories. Config titles override them; anything else falls back to
// a title-cased category name.
var defaultTitles = map[string]string{
	"models":                "🤖 AI Models & Research",
	"creative_applications": "🎨 Creative Applications",
	"productivity_tools":    "⚡ Productivity Tools",
	"product_launches":      "🚀 Product Launches",
}

// Metric is one engagement badge on an item's metadata line.
type Metric struct {
	Glyph string
	Count int
}

// Item is the display view of one content item.
type Item struct {
	Title       string
	URL         string
	Description string
	Source      string
	Date        string
	Published   time.Time // feed export needs the unformatted time
	Metrics     []Metric
	Authors     string
	ImageURL    string
}

// Section is one category block of the newsletter.
type Section struct {
	Title string
	Items []Item
}

// Digest is the assembled newsletter, ready to render.
type Digest struct {
	Date     string
	Intro    string
	Sections []Section
}

// Empty reports whether the digest has nothing to say.
func (d Digest) Empty() bool { return len(d.Sections) == 0 }

// Builder assembles digests from pipeline results.
type Builder struct {
	titles        map[string]string
	includeImages bool
	now           func() time.Time
}

func NewBuilder(cfg *config.Config) *Builder {
	titles := make(map[string]string, len(cfg.Categories))
	for name, cc := range cfg.Categories {
		if cc.Title != "" {
			titles[name] = cc.Title
		}
	}
	return &Builder{
		titles:        titles,
		includeImages: cfg.Content.IncludeImages,
		now:           time.Now,
	}
}

// Build converts a pipeline result into the display model. Section
// order follows the result, which is already category-priority order.
func (b *Builder) Build(res content.Result) Digest {
	d := Digest{Date: b.now().Format("January 02, 2006")}
	for _, sec := range res.Sections {
		s := Section{Title: b.sectionTitle(sec.Name), Items: make([]Item, 0, len(sec.Items))}
		for _, it := range sec.Items {
			s.Items = append(s.Items, b.item(it))
		}
		d.Sections = append(d.Sections, s)
	}
	return d
}

func (b *Builder) sectionTitle(name string) string {
	if t, ok := b.titles[name]; ok {
		return t
	}
	if t, ok := defaultTitles[name]; ok {
		return t
	}
	return titleCase(name)
}

func (b *Builder) item(it model.ContentItem) Item {
	out := Item{
		Title:       it.Title,
		URL:         it.URL,
		Description: it.Description,
		Source:      it.Source,
		Published:   it.PublishedAt,
		Authors:     it.Authors,
	}
	if out.Title == "" {
		out.Title = "Untitled"
	}
	if out.URL == "" {
		out.URL = "#"
	}
	if out.Published.IsZero() {
		out.Published = b.now()
	}
	out.Date = out.Published.Format("Jan 02, 2006")

	for _, m := range []struct {
		glyph string
		raw   model.Metric
	}{
		{"⬆", it.Upvotes},
		{"★", it.Score},
		{"⭐", it.Stars},
		{"💬", it.Comments},
	} {
		if n := m.raw.Value(); n > 0 {
			out.Metrics = append(out.Metrics, Metric{Glyph: m.glyph, Count: n})
		}
	}

	if b.includeImages {
		out.ImageURL = it.ImageURL
	}
	return out
}

// titleCase renders a category name as a heading: underscores become
// spaces and each word is capitalized.
func titleCase(name string) string {
	words := strings.Split(name, "_")
	for i, w := range words {
		r := []rune(w)
		if len(r) > 0 {
			r[0] = unicode.ToUpper(r[0])
		}
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
