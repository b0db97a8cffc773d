package model

import "time"

// ItemType identifies what kind of content an adapter produced.
type ItemType string

const (
	TypeBlogPost      ItemType = "blog_post"
	TypeResearchPaper ItemType = "research_paper"
	TypeRedditPost    ItemType = "reddit_post"
	TypeHNStory       ItemType = "hn_story"
	TypeGitHubRepo    ItemType = "github_repo"
	TypeProductLaunch ItemType = "product_launch"
)

// fallbackCategories maps item types to the category they land in when no
// keyword matches their text.
var fallbackCategories = map[ItemType]string{
	TypeResearchPaper: "models",
	TypeProductLaunch: "product_launches",
}

// researchTypes lists the types that earn the research ranking bonus.
var researchTypes = map[ItemType]bool{
	TypeResearchPaper: true,
}

// FallbackCategory returns the default category for the type. Unknown types
// have no fallback.
func (t ItemType) FallbackCategory() (string, bool) {
	c, ok := fallbackCategories[t]
	return c, ok
}

// IsResearch reports whether the type counts as research when ranking.
func (t ItemType) IsResearch() bool { return researchTypes[t] }

// ContentItem is the normalized record every source adapter produces.
type ContentItem struct {
	Title       string    `json:"title" yaml:"title"`
	URL         string    `json:"url" yaml:"url"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Source      string    `json:"source" yaml:"source"`
	PublishedAt time.Time `json:"published_date" yaml:"published_date"`
	Type        ItemType  `json:"type" yaml:"type"`
	ImageURL    string    `json:"image_url,omitempty" yaml:"image_url,omitempty"`
	Authors     string    `json:"authors,omitempty" yaml:"authors,omitempty"`
	HasCode     bool      `json:"has_code,omitempty" yaml:"has_code,omitempty"`

	Upvotes  Metric `json:"upvotes,omitempty" yaml:"upvotes,omitempty"`
	Score    Metric `json:"score,omitempty" yaml:"score,omitempty"`
	Stars    Metric `json:"stars,omitempty" yaml:"stars,omitempty"`
	Comments Metric `json:"comments,omitempty" yaml:"comments,omitempty"`

	// Annotations attached by the curation pipeline, never by adapters.
	Untrusted     bool    `json:"-" yaml:"-"`
	CategoryScore float64 `json:"-" yaml:"-"`
}

// HasEngagement reports whether any engagement metric is positive.
func (it ContentItem) HasEngagement() bool {
	return it.Upvotes.Value() > 0 || it.Score.Value() > 0 ||
		it.Stars.Value() > 0 || it.Comments.Value() > 0
}
