package handlers

import (
	"net/http"

	"github.com/Musavirkhaliq/SukoonSphere-sub001/models"
	"github.com/Musavirkhaliq/SukoonSphere-sub001/services"

	"github.com/gin-gonic/gin"
)

type ContentHandler struct {
	contentService *services.ContentService
}

// NewContentHandler creates a new content catalog handler
func NewContentHandler(contentService *services.ContentService) *ContentHandler {
	return &ContentHandler{
		contentService: contentService,
	}
}

// UpsertContent registers or updates a catalog item
// PUT /api/v1/content
// Body: {"id": "...", "kind": "post", "type": "post", "title": "...", "creator_id": "...", "tags": ["anxiety"]}
func (h *ContentHandler) UpsertContent(c *gin.Context) {
	var req models.UpsertContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	item, err := h.contentService.Upsert(c.Request.Context(), models.ContentItem{
		ID:          req.ID,
		Kind:        req.Kind,
		Type:        models.ContentType(req.Type),
		Title:       req.Title,
		Description: req.Description,
		PreviewURL:  req.PreviewURL,
		CreatorID:   req.CreatorID,
		Category:    req.Category,
		CreatedAt:   req.CreatedAt.UTC(),
	}, req.Tags)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, item.ToSummary())
}

// GetContent returns one catalog item. Routed behind TrackActivity, so a
// successful read counts as a view.
// GET /api/v1/content/:id
func (h *ContentHandler) GetContent(c *gin.Context) {
	item, err := h.contentService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	markTracked(c, item.Type, item.Kind)
	c.JSON(http.StatusOK, item.ToSummary())
}

// GetStats returns statistics about the catalog
// GET /api/v1/content/stats
func (h *ContentHandler) GetStats(c *gin.Context) {
	stats, err := h.contentService.GetCatalogStats(c.Request.Context())
	if err != nil {
		respondInternalError(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Health reports liveness
// GET /health
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
