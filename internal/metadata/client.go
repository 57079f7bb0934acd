// Package metadata fetches link previews for non-catalog URLs: the page
// title, description and image used when a shared link has no catalog
// identity. Open Graph tags win over plain HTML fallbacks.
package metadata

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// Preview is the metadata contract consumed by the presentation layer.
type Preview struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Success     bool   `json:"success"`
}

// Client fetches and parses page metadata. Concurrent fetches for the same
// URL collapse into a single request.
type Client struct {
	httpClient *http.Client
	sf         singleflight.Group
	logger     zerolog.Logger
}

// NewClient creates a metadata client.
func NewClient(timeout time.Duration, logger zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.With().Str("component", "metadata_client").Logger(),
	}
}

// Fetch returns the preview for the given URL.
func (c *Client) Fetch(ctx context.Context, url string) (*Preview, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, fmt.Errorf("url must not be blank")
	}

	v, err, shared := c.sf.Do(url, func() (any, error) {
		return c.fetch(ctx, url)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		c.logger.Debug().Str("url", url).Msg("Metadata fetch shared with concurrent caller")
	}
	return v.(*Preview), nil
}

func (c *Client) fetch(ctx context.Context, url string) (*Preview, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build metadata request: %w", err)
	}
	req.Header.Set("User-Agent", "DealHawk-DealService/1.0")
	req.Header.Set("Accept", "text/html")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch %s: HTTP %d", url, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", url, err)
	}
	return parseDocument(doc), nil
}

// parseDocument extracts the preview fields from a parsed page.
func parseDocument(doc *goquery.Document) *Preview {
	p := &Preview{Success: true}

	p.Title = metaContent(doc, `meta[property="og:title"]`)
	if p.Title == "" {
		p.Title = strings.TrimSpace(doc.Find("title").First().Text())
	}

	p.Description = metaContent(doc, `meta[property="og:description"]`)
	if p.Description == "" {
		p.Description = metaContent(doc, `meta[name="description"]`)
	}

	p.Image = metaContent(doc, `meta[property="og:image"]`)

	return p
}

func metaContent(doc *goquery.Document, selector string) string {
	content, _ := doc.Find(selector).First().Attr("content")
	return strings.TrimSpace(content)
}
