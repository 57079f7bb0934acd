// Package rewrite is the HTTP client for the text-rewrite collaborator.
// The endpoint transforms deal copy into shareable text; it may answer with
// a retry indicator when the model behind it is warming up or throttled.
package rewrite

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ErrRetriesExhausted is returned when the endpoint keeps asking to retry.
var ErrRetriesExhausted = errors.New("rewrite endpoint kept asking to retry")

type request struct {
	Text string `json:"text"`
}

type response struct {
	Success   bool   `json:"success"`
	Rewritten string `json:"rewritten"`
	Retry     bool   `json:"retry"`
	Error     string `json:"error,omitempty"`
}

// Config holds the rewrite client configuration.
type Config struct {
	BaseURL    string
	MaxRetries int
	RetryDelay time.Duration
	Timeout    time.Duration
}

// Client calls the rewrite endpoint.
type Client struct {
	httpClient *http.Client
	cfg        Config
	logger     zerolog.Logger
}

// NewClient creates a rewrite client.
func NewClient(cfg Config, logger zerolog.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 500 * time.Millisecond
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cfg:        cfg,
		logger:     logger.With().Str("component", "rewrite_client").Logger(),
	}
}

// Rewrite submits text and returns the rewritten version. A retry indicator
// in the response body triggers a bounded delay-and-retry loop; anything
// else resolves or fails on the first round trip.
func (c *Client) Rewrite(ctx context.Context, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("text must not be blank")
	}

	body, err := json.Marshal(request{Text: text})
	if err != nil {
		return "", fmt.Errorf("encode rewrite request: %w", err)
	}

	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(c.cfg.RetryDelay):
			}
		}

		out, retry, err := c.once(ctx, body)
		if err != nil {
			return "", err
		}
		if !retry {
			return out, nil
		}
		c.logger.Debug().Int("attempt", attempt).Msg("Rewrite endpoint asked to retry")
	}

	return "", ErrRetriesExhausted
}

func (c *Client) once(ctx context.Context, body []byte) (rewritten string, retry bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/api/rewrite", bytes.NewReader(body))
	if err != nil {
		return "", false, fmt.Errorf("build rewrite request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", false, fmt.Errorf("rewrite request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", false, fmt.Errorf("rewrite endpoint: HTTP %d", resp.StatusCode)
	}

	var r response
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return "", false, fmt.Errorf("decode rewrite response: %w", err)
	}
	if r.Retry {
		return "", true, nil
	}
	if !r.Success {
		msg := r.Error
		if msg == "" {
			msg = "rewrite endpoint reported failure"
		}
		return "", false, errors.New(msg)
	}
	return r.Rewritten, false, nil
}
