// Package ai is the optional editorial layer: an OpenAI-backed
// Summarizer writes the digest intro and fills in descriptions for
// items that scraped without one. It touches presentation only;
// selection and ordering never depend on it.
package ai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/ksasanka/ai-newsletter/internal/config"
	"github.com/ksasanka/ai-newsletter/internal/digest"
)

// Summarizer defines the editorial text interface used when composing a digest.
type Summarizer interface {
	// DigestIntro writes a short editor's note from the issue's top headlines.
	DigestIntro(ctx context.Context, headlines []string) (string, error)
	// ItemSummary creates a concise one-to-two sentence description for a linked item.
	ItemSummary(ctx context.Context, title, url string) (string, error)
}

// OpenAIClient implements Summarizer using OpenAI Chat Completions API.
type OpenAIClient struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

func NewOpenAI(cfg config.OpenAIConfig) *OpenAIClient {
	var c *openai.Client
	if cfg.BaseURL != "" {
		cc := openai.DefaultConfig(cfg.APIKey)
		cc.BaseURL = cfg.BaseURL
		c = openai.NewClientWithConfig(cc)
	} else {
		c = openai.NewClient(cfg.APIKey)
	}
	t := cfg.Timeout
	if t <= 0 {
		t = 2 * time.Minute
	}
	return &OpenAIClient{client: c, model: cfg.Model, timeout: t}
}

func (o *OpenAIClient) DigestIntro(ctx context.Context, headlines []string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()
	if len(headlines) == 0 {
		return "", nil
	}
	b := &strings.Builder{}
	for i, h := range headlines {
		if i >= 10 {
			break
		}
		fmt.Fprintf(b, "- %s\n", h)
	}
	sys := `
		You are the editor of a weekly AI newsletter.
		Write 2-3 sentences (40-90 words) introducing this issue from its headlines.
		Name the common threads, do not enumerate the items one by one.
		Plain text only, no links, no greeting, no sign-off.
		`
	user := fmt.Sprintf("This issue's top headlines:\n%s", b.String())
	out, err := o.create(ctx, sys, user)
	if err != nil {
		slog.Error("openai: digest intro error", "err", err)
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func (o *OpenAIClient) ItemSummary(ctx context.Context, title, url string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()
	sys := `
		Write a 1-2 sentence newsletter description (under 40 words) for the linked item.
		Describe what it is, not why it matters.
		Plain text only, no links, no markdown.
		`
	user := fmt.Sprintf("Title: %s\nURL: %s", title, url)
	out, err := o.create(ctx, sys, user)
	if err != nil {
		slog.Error("openai: item summary error", "err", err)
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func (o *OpenAIClient) create(ctx context.Context, system, user string) (string, error) {
	// Default timeout guard, if caller didn't set one
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 300*time.Second)
		defer cancel()
	}
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: 0.4,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

// Decorate applies editorial touches to a built digest: an intro from
// the section headlines, and descriptions for items that arrived
// without one. Failures log and leave that spot as it was.
func Decorate(ctx context.Context, s Summarizer, d *digest.Digest) {
	if s == nil || d == nil || d.Empty() {
		return
	}

	var headlines []string
	for _, sec := range d.Sections {
		for _, it := range sec.Items {
			headlines = append(headlines, it.Title)
		}
	}
	intro, err := s.DigestIntro(ctx, headlines)
	if err != nil {
		slog.Warn("ai: digest intro failed, sending without one", "err", err)
	} else {
		d.Intro = intro
	}

	for si := range d.Sections {
		for ii := range d.Sections[si].Items {
			it := &d.Sections[si].Items[ii]
			if it.Description != "" {
				continue
			}
			summary, err := s.ItemSummary(ctx, it.Title, it.URL)
			if err != nil {
				slog.Warn("ai: item summary failed", "title", it.Title, "err", err)
				continue
			}
			it.Description = summary
		}
	}
}
