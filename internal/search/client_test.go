package search

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dealhawk/deal-service/internal/feed"
)

func testConfig(baseURL string) Config {
	cfg := DefaultConfig(baseURL)
	cfg.RequestsPerSecond = 1000
	cfg.Burst = 1000
	cfg.InitialBackoff = time.Millisecond
	cfg.MaxBackoff = 5 * time.Millisecond
	return cfg
}

func validRequest() feed.SearchRequest {
	return feed.SearchRequest{Keyword: "usb hub", MinDiscount: 20, Page: 1, PageSize: 30}
}

func TestSearchSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/search", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"deals":[{"asin":"A1","title":"Hub","discount":40,"originalPrice":49.99,"currentPrice":29.99}]}`))
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL), zerolog.Nop())
	resp, err := c.Search(context.Background(), validRequest())
	require.NoError(t, err)

	assert.True(t, resp.Success)
	require.Len(t, resp.Deals, 1)
	assert.Equal(t, "A1", resp.Deals[0].ASIN)
	assert.Equal(t, 40, resp.Deals[0].Discount)
}

func TestSearchApplicationFailurePassedThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"error":"upstream quota exceeded"}`))
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL), zerolog.Nop())
	resp, err := c.Search(context.Background(), validRequest())
	require.NoError(t, err, "success=false is an application-level signal, not a transport error")
	assert.False(t, resp.Success)
	assert.Equal(t, "upstream quota exceeded", resp.Error)
}

func TestSearchRetriesServerErrors(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"success":true,"deals":[]}`))
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL), zerolog.Nop())
	resp, err := c.Search(context.Background(), validRequest())
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, int32(3), hits.Load())
}

func TestSearchExhaustsRetries(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.MaxRetries = 2
	c := NewClient(cfg, zerolog.Nop())

	_, err := c.Search(context.Background(), validRequest())
	require.Error(t, err)

	var retryErr *RetryError
	require.True(t, errors.As(err, &retryErr))
	assert.Equal(t, 3, retryErr.Attempts)
	assert.Equal(t, http.StatusInternalServerError, retryErr.LastStatus)
	assert.Equal(t, int32(3), hits.Load())
}

func TestSearchDoesNotRetryClientErrors(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL), zerolog.Nop())
	_, err := c.Search(context.Background(), validRequest())
	require.Error(t, err)
	assert.Equal(t, int32(1), hits.Load(), "4xx other than 429 must not be retried")
}

func TestSearchValidatesRequest(t *testing.T) {
	c := NewClient(testConfig("http://unused"), zerolog.Nop())

	_, err := c.Search(context.Background(), feed.SearchRequest{Page: 0, PageSize: 30, Keyword: "x"})
	assert.Error(t, err, "page below 1 must be rejected before any network call")

	_, err = c.Search(context.Background(), feed.SearchRequest{Page: 1, PageSize: 30})
	assert.Error(t, err, "missing keyword must be rejected before any network call")
}

func TestIsRetryableStatus(t *testing.T) {
	tests := []struct {
		status int
		want   bool
	}{
		{429, true},
		{500, true},
		{503, true},
		{404, false},
		{400, false},
		{200, false},
	}
	for _, tt := range tests {
		if got := isRetryableStatus(tt.status); got != tt.want {
			t.Errorf("isRetryableStatus(%d) = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestCalculateBackoffBounds(t *testing.T) {
	initial := 100 * time.Millisecond
	max := time.Second

	for attempt := 0; attempt < 10; attempt++ {
		d := calculateBackoff(attempt, initial, max)
		if d < initial {
			t.Errorf("attempt %d: backoff %v below initial %v", attempt, d, initial)
		}
		// Cap plus maximum 25% jitter.
		if d > max+max/4 {
			t.Errorf("attempt %d: backoff %v exceeds cap %v", attempt, d, max+max/4)
		}
	}
}

func TestRetryAfterHeaderRespected(t *testing.T) {
	d := calculateRateLimitBackoff(0, time.Millisecond, time.Second, "2")
	assert.GreaterOrEqual(t, d, 2*time.Second)
	assert.Less(t, d, 4*time.Second)
}
