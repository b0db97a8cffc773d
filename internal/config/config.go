package config

import (
	"sort"
	"time"
)

// AppConfig holds application-level settings.
type AppConfig struct {
	LogLevel string `mapstructure:"log_level"`
}

// ContentConfig controls the collection window and digest size.
type ContentConfig struct {
	DaysToLookBack      int  `mapstructure:"days_to_look_back"`
	MaxItemsPerCategory int  `mapstructure:"max_items_per_category"`
	IncludeImages       bool `mapstructure:"include_images"`
	InlineImages        bool `mapstructure:"inline_images"` // fetch images and embed them as data URIs
}

// CategoryConfig defines one newsletter category.
type CategoryConfig struct {
	Enabled  bool     `mapstructure:"enabled"`
	Priority int      `mapstructure:"priority"` // 1 is highest
	Title    string   `mapstructure:"title"`    // section heading; defaults per category name
	Keywords []string `mapstructure:"keywords"`
}

// Category pairs a category name with its configuration.
type Category struct {
	Name string
	CategoryConfig
}

// FilteringConfig controls exclusion, engagement and trust checks.
type FilteringConfig struct {
	ExcludeKeywords     []string `mapstructure:"exclude_keywords"`
	TrustedDomains      []string `mapstructure:"trusted_domains"`
	RequireEngagement   bool     `mapstructure:"require_engagement"`
	Deduplicate         bool     `mapstructure:"deduplicate"`
	SimilarityThreshold float64  `mapstructure:"similarity_threshold"` // titles above this are duplicates
}

// EngagementWeight converts a raw count into points: count/Per, capped at Cap.
type EngagementWeight struct {
	Per float64 `mapstructure:"per"`
	Cap float64 `mapstructure:"cap"`
}

// RankingConfig holds the engagement weights used when scoring items.
type RankingConfig struct {
	Upvotes  EngagementWeight `mapstructure:"upvotes"`
	Score    EngagementWeight `mapstructure:"score"`
	Stars    EngagementWeight `mapstructure:"stars"`
	Comments EngagementWeight `mapstructure:"comments"`
}

// BlogConfig identifies one company blog. RSS is preferred when set; the
// page at URL is scraped otherwise.
type BlogConfig struct {
	Name string `mapstructure:"name"`
	URL  string `mapstructure:"url"`
	RSS  string `mapstructure:"rss"`
}

// CompanyBlogsConfig controls the company blog source.
type CompanyBlogsConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	RequestDelay time.Duration `mapstructure:"request_delay"`
	Blogs        []BlogConfig  `mapstructure:"blogs"`
}

// ResearchSourceConfig selects one research feed by name: arxiv,
// huggingface, or paperswithcode.
type ResearchSourceConfig struct {
	Name       string `mapstructure:"name"`
	Query      string `mapstructure:"query"`       // arxiv only
	MaxResults int    `mapstructure:"max_results"` // arxiv only
}

// ResearchConfig controls the research paper source.
type ResearchConfig struct {
	Enabled      bool                   `mapstructure:"enabled"`
	RequestDelay time.Duration          `mapstructure:"request_delay"`
	Sources      []ResearchSourceConfig `mapstructure:"sources"`
}

// RedditConfig controls the reddit source.
type RedditConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	RequestDelay time.Duration `mapstructure:"request_delay"`
	Subreddits   []string      `mapstructure:"subreddits"`
	MinUpvotes   int           `mapstructure:"min_upvotes"`
}

// HackerNewsConfig controls the Hacker News source.
type HackerNewsConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	RequestDelay time.Duration `mapstructure:"request_delay"`
	BaseURL      string        `mapstructure:"base_url"`
	Lists        []string      `mapstructure:"lists"` // topstories, beststories
	MinScore     int           `mapstructure:"min_score"`
	Keywords     []string      `mapstructure:"keywords"` // title prefilter
	LimitPerList int           `mapstructure:"limit_per_list"`
}

// ProductHuntConfig controls the Product Hunt source.
type ProductHuntConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	RequestDelay time.Duration `mapstructure:"request_delay"`
	Topics       []string      `mapstructure:"topics"`
	MinUpvotes   int           `mapstructure:"min_upvotes"`
}

// GitHubConfig controls the GitHub trending source.
type GitHubConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	RequestDelay time.Duration `mapstructure:"request_delay"`
	Period       string        `mapstructure:"period"` // daily, weekly, monthly
	Languages    []string      `mapstructure:"languages"`
	Topics       []string      `mapstructure:"topics"`
}

// DataSources groups the available content sources.
type DataSources struct {
	CompanyBlogs CompanyBlogsConfig `mapstructure:"company_blogs"`
	Research     ResearchConfig     `mapstructure:"research"`
	Reddit       RedditConfig       `mapstructure:"reddit"`
	HackerNews   HackerNewsConfig   `mapstructure:"hackernews"`
	ProductHunt  ProductHuntConfig  `mapstructure:"producthunt"`
	GitHub       GitHubConfig       `mapstructure:"github"`
}

// EmailConfig holds SMTP delivery settings. Username defaults to Sender
// when empty, which is what most providers expect.
type EmailConfig struct {
	SMTPHost      string   `mapstructure:"smtp_host"`
	SMTPPort      int      `mapstructure:"smtp_port"`
	Username      string   `mapstructure:"username"`
	Password      string   `mapstructure:"password"`
	Sender        string   `mapstructure:"sender"`
	SenderName    string   `mapstructure:"sender_name"`
	Recipients    []string `mapstructure:"recipients"`
	SubjectPrefix string   `mapstructure:"subject_prefix"`
}

// OpenAIConfig enables the optional AI editor note when APIKey is set.
type OpenAIConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	Model   string        `mapstructure:"model"`
	BaseURL string        `mapstructure:"base_url"` // optional
	Timeout time.Duration `mapstructure:"timeout"`
}

// RedisConfig enables the optional collection cache when Addr is set.
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Username string        `mapstructure:"username"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// ScheduleConfig controls serve mode.
type ScheduleConfig struct {
	Interval time.Duration `mapstructure:"interval"`
}

// AdvancedConfig holds HTTP plumbing shared by all sources.
type AdvancedConfig struct {
	RequestDelay time.Duration `mapstructure:"request_delay"`
	HTTPTimeout  time.Duration `mapstructure:"http_timeout"`
	UserAgent    string        `mapstructure:"user_agent"`
}

// Config is the top-level configuration structure.
type Config struct {
	App        AppConfig                 `mapstructure:"app"`
	Content    ContentConfig             `mapstructure:"content"`
	Categories map[string]CategoryConfig `mapstructure:"categories"`
	Filtering  FilteringConfig           `mapstructure:"filtering"`
	Ranking    RankingConfig             `mapstructure:"ranking"`
	Sources    DataSources               `mapstructure:"sources"`
	Email      EmailConfig               `mapstructure:"email"`
	OpenAI     OpenAIConfig              `mapstructure:"openai"`
	Redis      RedisConfig               `mapstructure:"redis"`
	Schedule   ScheduleConfig            `mapstructure:"schedule"`
	Advanced   AdvancedConfig            `mapstructure:"advanced"`
}

// FillDefaults applies default values if not provided.
func (c *Config) FillDefaults() {
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if c.Content.DaysToLookBack == 0 {
		c.Content.DaysToLookBack = 7
	}
	if c.Content.MaxItemsPerCategory == 0 {
		c.Content.MaxItemsPerCategory = 10
	}
	if len(c.Categories) == 0 {
		c.Categories = DefaultCategories()
	}
	for name, cc := range c.Categories {
		if cc.Priority == 0 {
			cc.Priority = 5
			c.Categories[name] = cc
		}
	}
	if c.Filtering.SimilarityThreshold == 0 {
		c.Filtering.SimilarityThreshold = 0.85
	}
	fillWeight(&c.Ranking.Upvotes, 10, 20)
	fillWeight(&c.Ranking.Score, 10, 20)
	fillWeight(&c.Ranking.Stars, 100, 20)
	fillWeight(&c.Ranking.Comments, 5, 10)
	if c.Advanced.RequestDelay == 0 {
		c.Advanced.RequestDelay = time.Second
	}
	if c.Advanced.HTTPTimeout == 0 {
		c.Advanced.HTTPTimeout = 10 * time.Second
	}
	if c.Advanced.UserAgent == "" {
		c.Advanced.UserAgent = "AI Newsletter Bot 1.0"
	}
	// Per-source delays fall back to the global one.
	for _, d := range []*time.Duration{
		&c.Sources.CompanyBlogs.RequestDelay,
		&c.Sources.Research.RequestDelay,
		&c.Sources.Reddit.RequestDelay,
		&c.Sources.HackerNews.RequestDelay,
		&c.Sources.ProductHunt.RequestDelay,
		&c.Sources.GitHub.RequestDelay,
	} {
		if *d == 0 {
			*d = c.Advanced.RequestDelay
		}
	}
	if c.Sources.HackerNews.BaseURL == "" {
		c.Sources.HackerNews.BaseURL = "https://hacker-news.firebaseio.com/v0"
	}
	if len(c.Sources.HackerNews.Lists) == 0 {
		c.Sources.HackerNews.Lists = []string{"topstories", "beststories"}
	}
	if c.Sources.HackerNews.LimitPerList == 0 {
		c.Sources.HackerNews.LimitPerList = 100
	}
	if len(c.Sources.Research.Sources) == 0 {
		c.Sources.Research.Sources = []ResearchSourceConfig{
			{Name: "arxiv", Query: "cat:cs.AI OR cat:cs.LG OR cat:cs.CL", MaxResults: 20},
			{Name: "huggingface"},
			{Name: "paperswithcode"},
		}
	}
	for i := range c.Sources.Research.Sources {
		s := &c.Sources.Research.Sources[i]
		if s.Name == "arxiv" {
			if s.Query == "" {
				s.Query = "cat:cs.AI OR cat:cs.LG OR cat:cs.CL"
			}
			if s.MaxResults == 0 {
				s.MaxResults = 20
			}
		}
	}
	if len(c.Sources.ProductHunt.Topics) == 0 {
		c.Sources.ProductHunt.Topics = []string{"ai"}
	}
	if c.Sources.GitHub.Period == "" {
		c.Sources.GitHub.Period = "daily"
	}
	if c.Email.SMTPPort == 0 {
		c.Email.SMTPPort = 587
	}
	if c.Email.SubjectPrefix == "" {
		c.Email.SubjectPrefix = "This Week in AI"
	}
	if c.OpenAI.Model == "" {
		c.OpenAI.Model = "gpt-4o-mini"
	}
	if c.OpenAI.Timeout == 0 {
		c.OpenAI.Timeout = 2 * time.Minute
	}
	if c.Redis.CacheTTL == 0 {
		c.Redis.CacheTTL = time.Hour
	}
	if c.Schedule.Interval == 0 {
		c.Schedule.Interval = 24 * time.Hour
	}
}

func fillWeight(w *EngagementWeight, per, cap float64) {
	if w.Per == 0 {
		w.Per = per
	}
	if w.Cap == 0 {
		w.Cap = cap
	}
}

// DefaultCategories returns the standard four newsletter categories.
func DefaultCategories() map[string]CategoryConfig {
	return map[string]CategoryConfig{
		"models": {
			Enabled:  true,
			Priority: 1,
			Keywords: []string{
				"model", "llm", "gpt", "claude", "gemini", "llama",
				"training", "benchmark", "open source", "weights",
			},
		},
		"creative_applications": {
			Enabled:  true,
			Priority: 2,
			Keywords: []string{
				"image generation", "video generation", "music", "art",
				"creative", "design", "diffusion", "midjourney",
			},
		},
		"productivity_tools": {
			Enabled:  true,
			Priority: 3,
			Keywords: []string{
				"productivity", "assistant", "automation", "workflow",
				"coding", "copilot", "agent", "tool",
			},
		},
		"product_launches": {
			Enabled:  true,
			Priority: 4,
			Keywords: []string{
				"launch", "release", "announce", "unveil", "introduce",
				"available", "beta",
			},
		},
	}
}

// OrderedCategories returns enabled categories sorted by priority, then
// name. Map iteration order is random, so every consumer that needs a
// stable category order goes through this.
func (c *Config) OrderedCategories() []Category {
	out := make([]Category, 0, len(c.Categories))
	for name, cc := range c.Categories {
		if !cc.Enabled {
			continue
		}
		out = append(out, Category{Name: name, CategoryConfig: cc})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority < out[j].Priority
		}
		return out[i].Name < out[j].Name
	})
	return out
}
