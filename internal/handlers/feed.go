package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/dealhawk/deal-service/internal/feed"
	"github.com/dealhawk/deal-service/internal/rewrite"
)

// FeedHandler exposes the feed controller over HTTP.
type FeedHandler struct {
	ctrl       *feed.Controller
	rewriter   *rewrite.Client
	maxResults int
	logger     zerolog.Logger
}

// NewFeedHandler creates a FeedHandler backed by the given controller.
// maxResults is the display cap applied when the caller does not send one.
func NewFeedHandler(ctrl *feed.Controller, rewriter *rewrite.Client, maxResults int, logger zerolog.Logger) *FeedHandler {
	if maxResults <= 0 {
		maxResults = 50
	}
	return &FeedHandler{
		ctrl:       ctrl,
		rewriter:   rewriter,
		maxResults: maxResults,
		logger:     logger.With().Str("component", "feed_handler").Logger(),
	}
}

// StartSearchRequest represents a request body for starting a fresh search
type StartSearchRequest struct {
	Keyword string `json:"keyword" jsonschema:"required"`
}

// StartSearchResponse represents the response after a fresh search completes
type StartSearchResponse struct {
	Keyword string `json:"keyword" jsonschema:"required"`
	Merged  int    `json:"merged" jsonschema:"required"`
	Total   int    `json:"total" jsonschema:"required"`
}

// StartSearch replaces the active keyword and fetches the first result page
// @Summary Start a fresh search
// @Description Resets the pagination cursor, fetches page one for the keyword and prepends unique results
// @Tags feed
// @Accept json
// @Produce json
// @Param request body StartSearchRequest true "Search parameters"
// @Success 200 {object} StartSearchResponse
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 502 {object} map[string]string "Upstream search failed"
// @Router /api/feed/search [post]
func (h *FeedHandler) StartSearch(c *gin.Context) {
	var req StartSearchRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	merged, err := h.ctrl.StartSearch(c.Request.Context(), req.Keyword)
	if err != nil {
		switch {
		case errors.Is(err, feed.ErrBlankKeyword):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, feed.ErrDisposed):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		default:
			h.logger.Error().Err(err).Str("keyword", req.Keyword).Msg("Search failed")
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		}
		return
	}

	status := h.ctrl.Status()
	c.JSON(http.StatusOK, StartSearchResponse{
		Keyword: status.Keyword,
		Merged:  merged,
		Total:   status.TotalDeals,
	})
}

// VisibilityRequest represents a scroll sentinel edge signal
type VisibilityRequest struct {
	Visible     bool `json:"visible" jsonschema:"required"`
	MinDiscount int  `json:"minDiscount,omitempty" jsonschema:"minimum=0,maximum=100"`
	RequireCode bool `json:"requireCode,omitempty"`
	MaxResults  int  `json:"maxResults,omitempty" jsonschema:"minimum=0"`
}

// FetchNextResponse represents the outcome of a visibility edge
type FetchNextResponse struct {
	Merged    int  `json:"merged" jsonschema:"required"`
	Exhausted bool `json:"exhausted" jsonschema:"required"`
	Total     int  `json:"total" jsonschema:"required"`
}

// FetchNext forwards a scroll sentinel visibility edge to the controller
// @Summary Signal the scroll sentinel
// @Description A visible edge requests the next page when more filtered deals exist than are displayed; non-visible edges and guarded sessions are no-ops
// @Tags feed
// @Accept json
// @Produce json
// @Param request body VisibilityRequest true "Visibility edge and active filter criteria"
// @Success 200 {object} FetchNextResponse
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 502 {object} map[string]string "Upstream search failed"
// @Router /api/feed/next [post]
func (h *FeedHandler) FetchNext(c *gin.Context) {
	var req VisibilityRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.MaxResults <= 0 {
		req.MaxResults = h.maxResults
	}

	merged, err := h.ctrl.OnVisibility(c.Request.Context(), req.Visible, feed.Criteria{
		MinDiscount: req.MinDiscount,
		RequireCode: req.RequireCode,
		MaxResults:  req.MaxResults,
	})
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	status := h.ctrl.Status()
	c.JSON(http.StatusOK, FetchNextResponse{
		Merged:    merged,
		Exhausted: status.Exhausted,
		Total:     status.TotalDeals,
	})
}

// ListDealsRequest represents query parameters for the deal listing
type ListDealsRequest struct {
	MinDiscount int  `form:"minDiscount" binding:"min=0,max=100" jsonschema:"minimum=0,maximum=100"`
	RequireCode bool `form:"requireCode"`
	MaxResults  int  `form:"maxResults" binding:"min=0" jsonschema:"minimum=0"`
}

// ListDeals returns the current view projection of the collection
// @Summary List deals
// @Description Returns the filtered and capped deal view with freshness flags
// @Tags feed
// @Produce json
// @Param minDiscount query int false "Minimum discount percentage" minimum(0) maximum(100)
// @Param requireCode query bool false "Only deals with a resolvable coupon code"
// @Param maxResults query int false "Display cap" default(50)
// @Success 200 {object} feed.Projection
// @Failure 400 {object} map[string]string "Bad request"
// @Router /api/feed/deals [get]
func (h *FeedHandler) ListDeals(c *gin.Context) {
	var req ListDealsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.MaxResults <= 0 {
		req.MaxResults = h.maxResults
	}

	c.JSON(http.StatusOK, h.ctrl.Project(feed.Criteria{
		MinDiscount: req.MinDiscount,
		RequireCode: req.RequireCode,
		MaxResults:  req.MaxResults,
	}))
}

// RewriteDealRequest represents a request body for rewriting a deal title
type RewriteDealRequest struct {
	Text string `json:"text,omitempty"`
}

// RewriteDealResponse represents the rewritten deal title
type RewriteDealResponse struct {
	LocalID   string `json:"localId" jsonschema:"required"`
	Rewritten string `json:"rewritten" jsonschema:"required"`
}

// RewriteDeal rewrites a deal title through the rewrite service
// @Summary Rewrite a deal title
// @Description Sends the deal title to the rewrite service and patches the result onto the deal
// @Tags feed
// @Accept json
// @Produce json
// @Param localId path string true "Local deal identifier"
// @Param request body RewriteDealRequest false "Override text to rewrite"
// @Success 200 {object} RewriteDealResponse
// @Failure 404 {object} map[string]string "Unknown deal"
// @Failure 502 {object} map[string]string "Rewrite service failed"
// @Router /api/feed/deals/{localId}/rewrite [patch]
func (h *FeedHandler) RewriteDeal(c *gin.Context) {
	localID := c.Param("localId")

	var req RewriteDealRequest
	if c.Request.Body != nil && c.Request.ContentLength > 0 {
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	text := req.Text
	if text == "" {
		for _, d := range h.ctrl.Snapshot() {
			if d.LocalID == localID {
				text = d.Title
				break
			}
		}
		if text == "" {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown deal"})
			return
		}
	}

	rewritten, err := h.rewriter.Rewrite(c.Request.Context(), text)
	if err != nil {
		h.logger.Error().Err(err).Str("local_id", localID).Msg("Rewrite failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	if !h.ctrl.PatchRewrite(localID, rewritten) {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown deal"})
		return
	}

	c.JSON(http.StatusOK, RewriteDealResponse{LocalID: localID, Rewritten: rewritten})
}

// GetStatus returns the controller status
// @Summary Feed status
// @Description Returns the active keyword, pagination cursor, bootstrap progress and collection size
// @Tags feed
// @Produce json
// @Success 200 {object} feed.Status
// @Router /api/feed/status [get]
func (h *FeedHandler) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.ctrl.Status())
}

// SetKeyRequest represents a request body for switching the identity key
type SetKeyRequest struct {
	Key string `json:"key" jsonschema:"required,enum=asin,enum=url,enum=title"`
}

// SetIdentityKey switches the dedup identity key for future merges
// @Summary Set the dedup identity key
// @Description Switches the configured identity key; already merged deals are not re-deduplicated
// @Tags feed
// @Accept json
// @Produce json
// @Param request body SetKeyRequest true "Identity key"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string "Bad request"
// @Router /api/feed/key [post]
func (h *FeedHandler) SetIdentityKey(c *gin.Context) {
	var req SetKeyRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.ctrl.SetIdentityKey(feed.IdentityKey(req.Key)); err != nil {
		if errors.Is(err, feed.ErrDisposed) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": req.Key})
}
