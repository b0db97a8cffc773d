// Package images inlines digest images as data URIs so mail clients
// render them without remote loads.
package images

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image/png"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/chai2010/webp"
	"github.com/doyensec/safeurl"

	"github.com/ksasanka/ai-newsletter/internal/digest"
)

const (
	maxImageBytes = 5 << 20
	fetchTimeout  = 15 * time.Second
)

// Inliner fetches item images and swaps their URLs for data URIs.
type Inliner struct {
	client *http.Client
}

// NewInliner builds an Inliner whose client refuses private, loopback
// and link-local destinations. Image URLs come off scraped pages and
// are untrusted input.
func NewInliner() *Inliner {
	cfg := safeurl.GetConfigBuilder().
		SetTimeout(fetchTimeout).
		SetAllowedSchemes("http", "https").
		SetAllowedPorts(80, 443).
		Build()
	return &Inliner{client: safeurl.Client(cfg).Client}
}

// Inline replaces every item image URL in the digest with a data URI.
// Items whose image cannot be fetched or decoded keep the remote URL.
func (n *Inliner) Inline(ctx context.Context, d *digest.Digest) {
	for si := range d.Sections {
		for ii := range d.Sections[si].Items {
			it := &d.Sections[si].Items[ii]
			if it.ImageURL == "" || strings.HasPrefix(it.ImageURL, "data:") {
				continue
			}
			uri, err := n.fetch(ctx, it.ImageURL)
			if err != nil {
				slog.Warn("images: inline failed, keeping remote URL", "url", it.ImageURL, "err", err)
				continue
			}
			it.ImageURL = uri
		}
	}
}

func (n *Inliner) fetch(ctx context.Context, rawurl string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawurl, nil)
	if err != nil {
		return "", err
	}
	resp, err := n.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("images: unexpected status %d for %s", resp.StatusCode, rawurl)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return "", err
	}
	if len(body) > maxImageBytes {
		return "", fmt.Errorf("images: %s exceeds %d bytes", rawurl, maxImageBytes)
	}
	return DataURI(body, resp.Header.Get("Content-Type"))
}

// DataURI converts raw image bytes into a data URI. WebP is converted
// to PNG first; most mail clients still cannot show WebP.
func DataURI(body []byte, contentType string) (string, error) {
	mt := sniffImageType(body, contentType)
	if mt == "image/webp" {
		converted, err := webpToPNG(body)
		if err != nil {
			return "", err
		}
		body, mt = converted, "image/png"
	}
	if !strings.HasPrefix(mt, "image/") {
		return "", fmt.Errorf("images: unsupported content type %q", mt)
	}
	return "data:" + mt + ";base64," + base64.StdEncoding.EncodeToString(body), nil
}

func webpToPNG(body []byte) ([]byte, error) {
	img, err := webp.Decode(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("images: webp decode: %w", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("images: png encode: %w", err)
	}
	return buf.Bytes(), nil
}

// sniffImageType prefers the server's Content-Type when it claims an
// image, and falls back to sniffing the bytes.
func sniffImageType(body []byte, header string) string {
	if header != "" {
		if mt, _, err := mime.ParseMediaType(header); err == nil && strings.HasPrefix(mt, "image/") {
			return mt
		}
	}
	return http.DetectContentType(body)
}
