package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dealhawk/deal-service/internal/feed"
	"github.com/dealhawk/deal-service/internal/metadata"
	"github.com/dealhawk/deal-service/internal/rewrite"
)

type fakeSearcher struct {
	pages map[int][]feed.Deal
	err   error
}

func (f *fakeSearcher) Search(ctx context.Context, req feed.SearchRequest) (*feed.SearchResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &feed.SearchResponse{Success: true, Deals: f.pages[req.Page]}, nil
}

func deal(asin string, discount int) feed.Deal {
	return feed.Deal{
		ASIN:     asin,
		URL:      "https://example.com/dp/" + asin,
		Title:    "Deal " + asin,
		Discount: discount,
	}
}

func newTestRouter(t *testing.T, searcher feed.Searcher, rewriteURL string) (*gin.Engine, *feed.Controller) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := zerolog.Nop()
	ctrl := feed.New(searcher, feed.DefaultConfig(), logger)
	t.Cleanup(ctrl.Dispose)

	rw := rewrite.NewClient(rewrite.Config{
		BaseURL:    rewriteURL,
		MaxRetries: 1,
		RetryDelay: time.Millisecond,
		Timeout:    time.Second,
	}, logger)

	fh := NewFeedHandler(ctrl, rw, 50, logger)

	router := gin.New()
	router.POST("/api/feed/search", fh.StartSearch)
	router.POST("/api/feed/next", fh.FetchNext)
	router.GET("/api/feed/deals", fh.ListDeals)
	router.PATCH("/api/feed/deals/:localId/rewrite", fh.RewriteDeal)
	router.GET("/api/feed/status", fh.GetStatus)
	router.POST("/api/feed/key", fh.SetIdentityKey)
	return router, ctrl
}

func doJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestStartSearchMergesFirstPage(t *testing.T) {
	searcher := &fakeSearcher{pages: map[int][]feed.Deal{
		1: {deal("A1", 40), deal("A2", 10)},
	}}
	router, _ := newTestRouter(t, searcher, "http://unused")

	w := doJSON(router, http.MethodPost, "/api/feed/search", `{"keyword":"laptop"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"merged":2`)
	assert.Contains(t, w.Body.String(), `"keyword":"laptop"`)
}

func TestStartSearchBlankKeyword(t *testing.T) {
	router, _ := newTestRouter(t, &fakeSearcher{}, "http://unused")

	w := doJSON(router, http.MethodPost, "/api/feed/search", `{"keyword":"   "}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStartSearchUpstreamFailure(t *testing.T) {
	router, _ := newTestRouter(t, &fakeSearcher{err: fmt.Errorf("connection refused")}, "http://unused")

	w := doJSON(router, http.MethodPost, "/api/feed/search", `{"keyword":"laptop"}`)

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestFetchNextVisibleEdge(t *testing.T) {
	searcher := &fakeSearcher{pages: map[int][]feed.Deal{
		1: {deal("A1", 40), deal("A2", 50)},
		2: {deal("A3", 60)},
	}}
	router, _ := newTestRouter(t, searcher, "http://unused")

	doJSON(router, http.MethodPost, "/api/feed/search", `{"keyword":"laptop"}`)

	// More filtered deals exist than are displayed, so a visible edge fetches.
	w := doJSON(router, http.MethodPost, "/api/feed/next", `{"visible":true,"maxResults":1}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"merged":1`)
	assert.Contains(t, w.Body.String(), `"total":3`)
}

func TestFetchNextNonVisibleEdgeIsNoop(t *testing.T) {
	searcher := &fakeSearcher{pages: map[int][]feed.Deal{
		1: {deal("A1", 40), deal("A2", 50)},
	}}
	router, _ := newTestRouter(t, searcher, "http://unused")

	doJSON(router, http.MethodPost, "/api/feed/search", `{"keyword":"laptop"}`)

	w := doJSON(router, http.MethodPost, "/api/feed/next", `{"visible":false,"maxResults":1}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"merged":0`)
	assert.Contains(t, w.Body.String(), `"total":2`)
}

func TestListDealsAppliesFilter(t *testing.T) {
	searcher := &fakeSearcher{pages: map[int][]feed.Deal{
		1: {deal("A1", 70), deal("A2", 10), deal("A3", 55)},
	}}
	router, _ := newTestRouter(t, searcher, "http://unused")

	doJSON(router, http.MethodPost, "/api/feed/search", `{"keyword":"laptop"}`)

	w := doJSON(router, http.MethodGet, "/api/feed/deals?minDiscount=50", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"filteredCount":2`)
	assert.Contains(t, w.Body.String(), `"totalCount":3`)
	assert.NotContains(t, w.Body.String(), `"A2"`)
}

func TestRewriteDealPatchesTitle(t *testing.T) {
	rewriteSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"success":true,"rewritten":"Snappier title"}`)
	}))
	defer rewriteSrv.Close()

	searcher := &fakeSearcher{pages: map[int][]feed.Deal{
		1: {deal("A1", 40)},
	}}
	router, ctrl := newTestRouter(t, searcher, rewriteSrv.URL)

	doJSON(router, http.MethodPost, "/api/feed/search", `{"keyword":"laptop"}`)

	snapshot := ctrl.Snapshot()
	require.Len(t, snapshot, 1)
	localID := snapshot[0].LocalID

	w := doJSON(router, http.MethodPatch, "/api/feed/deals/"+localID+"/rewrite", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Snappier title")
	assert.Equal(t, "Snappier title", ctrl.Snapshot()[0].Rewritten)
}

func TestRewriteDealUnknownID(t *testing.T) {
	router, _ := newTestRouter(t, &fakeSearcher{}, "http://unused")

	w := doJSON(router, http.MethodPatch, "/api/feed/deals/nope/rewrite", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSetIdentityKey(t *testing.T) {
	router, _ := newTestRouter(t, &fakeSearcher{}, "http://unused")

	w := doJSON(router, http.MethodPost, "/api/feed/key", `{"key":"url"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodPost, "/api/feed/key", `{"key":"price"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetStatus(t *testing.T) {
	searcher := &fakeSearcher{pages: map[int][]feed.Deal{
		1: {deal("A1", 40)},
	}}
	router, _ := newTestRouter(t, searcher, "http://unused")

	doJSON(router, http.MethodPost, "/api/feed/search", `{"keyword":"laptop"}`)

	w := doJSON(router, http.MethodGet, "/api/feed/status", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"keyword":"laptop"`)
	assert.Contains(t, w.Body.String(), `"page":2`)
	assert.Contains(t, w.Body.String(), `"totalDeals":1`)
}

func TestGetMetadata(t *testing.T) {
	gin.SetMode(gin.TestMode)

	pageSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head><meta property="og:title" content="Widget"/></head></html>`)
	}))
	defer pageSrv.Close()

	h := NewMetadataHandler(metadata.NewClient(time.Second, zerolog.Nop()), zerolog.Nop())
	router := gin.New()
	router.GET("/api/metadata", h.GetMetadata)

	w := doJSON(router, http.MethodGet, "/api/metadata?url="+pageSrv.URL, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Widget")

	w = doJSON(router, http.MethodGet, "/api/metadata", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealthCheck(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/health", HealthCheck)

	w := doJSON(router, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}
