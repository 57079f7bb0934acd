// Package search is the HTTP client for the search endpoint collaborator.
// It owns transport-level concerns only: throttling, retry with backoff,
// and decoding the response contract. Merge semantics stay in the feed
// package.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/dealhawk/deal-service/internal/feed"
)

// Config holds the search client configuration.
type Config struct {
	BaseURL           string
	RequestsPerSecond float64
	Burst             int
	MaxRetries        int
	InitialBackoff    time.Duration
	MaxBackoff        time.Duration
	Timeout           time.Duration
}

// DefaultConfig returns conservative client defaults.
func DefaultConfig(baseURL string) Config {
	return Config{
		BaseURL:           baseURL,
		RequestsPerSecond: 2,
		Burst:             4,
		MaxRetries:        3,
		InitialBackoff:    100 * time.Millisecond,
		MaxBackoff:        30 * time.Second,
		Timeout:           30 * time.Second,
	}
}

// Client implements feed.Searcher over HTTP.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	validate   *validator.Validate
	cfg        Config
	logger     zerolog.Logger
}

// NewClient creates a search client for the given endpoint.
func NewClient(cfg Config, logger zerolog.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 2
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		validate:   validator.New(),
		cfg:        cfg,
		logger:     logger.With().Str("component", "search_client").Logger(),
	}
}

// Search issues the page request and decodes the response contract. A
// success=false payload is returned as-is: the caller decides whether that
// is an application error. Transport failures and retryable statuses are
// retried with exponential backoff before giving up.
func (c *Client) Search(ctx context.Context, req feed.SearchRequest) (*feed.SearchResponse, error) {
	if err := c.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid search request: %w", err)
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode search request: %w", err)
	}

	url := c.cfg.BaseURL + "/api/search"

	var lastStatus int
	var lastErr error

	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		// Throttle before each attempt, retries included.
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}

		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("build search request: %w", err)
		}
		httpReq.Header.Set("Content-Type", "application/json")
		httpReq.Header.Set("User-Agent", "DealHawk-DealService/1.0")

		resp, err := c.httpClient.Do(httpReq)
		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if attempt < c.cfg.MaxRetries {
				c.sleep(ctx, calculateBackoff(attempt, c.cfg.InitialBackoff, c.cfg.MaxBackoff))
				continue
			}
			break
		}

		lastStatus = resp.StatusCode

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return decodeResponse(resp)
		}

		retryAfter := resp.Header.Get("Retry-After")
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		if !isRetryableStatus(resp.StatusCode) || attempt == c.cfg.MaxRetries {
			break
		}

		var backoff time.Duration
		if resp.StatusCode == http.StatusTooManyRequests {
			backoff = calculateRateLimitBackoff(attempt, c.cfg.InitialBackoff, c.cfg.MaxBackoff, retryAfter)
		} else {
			backoff = calculateBackoff(attempt, c.cfg.InitialBackoff, c.cfg.MaxBackoff)
		}
		c.logger.Debug().Int("status", resp.StatusCode).Int("attempt", attempt).
			Dur("backoff", backoff).Msg("Retrying search request")
		c.sleep(ctx, backoff)
	}

	return nil, &RetryError{
		URL:        url,
		Attempts:   c.cfg.MaxRetries + 1,
		LastStatus: lastStatus,
		LastError:  lastErr,
	}
}

func decodeResponse(resp *http.Response) (*feed.SearchResponse, error) {
	defer resp.Body.Close()
	var out feed.SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	return &out, nil
}

func (c *Client) sleep(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
