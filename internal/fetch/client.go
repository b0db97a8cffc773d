// Package fetch provides the HTTP plumbing shared by all source adapters:
// one client per source, carrying its request pacer and the bot User-Agent.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	neturl "net/url"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"
)

// maxBody caps how much of a response body is read.
const maxBody = 10 << 20

// Client is an HTTP client with per-source request pacing.
type Client struct {
	http      *http.Client
	limiter   *rate.Limiter
	userAgent string
}

// New creates a client. delay is the minimum interval between requests;
// zero disables pacing.
func New(timeout, delay time.Duration, userAgent string) *Client {
	return &Client{
		http:      &http.Client{Timeout: timeout},
		limiter:   rate.NewLimiter(rate.Every(delay), 1),
		userAgent: userAgent,
	}
}

func (c *Client) do(ctx context.Context, url string) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		return nil, fmt.Errorf("fetch: %s status %d", url, resp.StatusCode)
	}
	return resp, nil
}

// Get fetches url and returns the response body.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	resp, err := c.do(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return io.ReadAll(io.LimitReader(resp.Body, maxBody))
}

// GetJSON fetches url and decodes the JSON response into v.
func (c *Client) GetJSON(ctx context.Context, url string, v any) error {
	b, err := c.Get(ctx, url)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}

// GetHTML fetches url and parses the response as an HTML document.
func (c *Client) GetHTML(ctx context.Context, url string) (*goquery.Document, error) {
	resp, err := c.do(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxBody))
}

// SiteBase returns the scheme://host prefix of rawurl, used to make
// root-relative links absolute.
func SiteBase(rawurl string) string {
	u, err := neturl.Parse(rawurl)
	if err != nil {
		return ""
	}
	return u.Scheme + "://" + u.Host
}
