package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/dealhawk/deal-service/internal/metadata"
)

// MetadataHandler proxies page preview lookups to the metadata client.
type MetadataHandler struct {
	client *metadata.Client
	logger zerolog.Logger
}

// NewMetadataHandler creates a MetadataHandler.
func NewMetadataHandler(client *metadata.Client, logger zerolog.Logger) *MetadataHandler {
	return &MetadataHandler{
		client: client,
		logger: logger.With().Str("component", "metadata_handler").Logger(),
	}
}

// GetMetadata fetches an Open Graph preview for a product URL
// @Summary Fetch page metadata
// @Description Fetches and parses Open Graph tags for the given URL; concurrent requests for the same URL are collapsed
// @Tags metadata
// @Produce json
// @Param url query string true "Page URL"
// @Success 200 {object} metadata.Preview
// @Failure 400 {object} map[string]string "Missing url parameter"
// @Failure 502 {object} map[string]string "Fetch failed"
// @Router /api/metadata [get]
func (h *MetadataHandler) GetMetadata(c *gin.Context) {
	url := c.Query("url")
	if url == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url parameter is required"})
		return
	}

	preview, err := h.client.Fetch(c.Request.Context(), url)
	if err != nil {
		h.logger.Warn().Err(err).Str("url", url).Msg("Metadata fetch failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, preview)
}
