package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Musavirkhaliq/SukoonSphere-sub001/logger"
	"github.com/Musavirkhaliq/SukoonSphere-sub001/models"
	"github.com/Musavirkhaliq/SukoonSphere-sub001/services"
	"github.com/Musavirkhaliq/SukoonSphere-sub001/utils"

	"github.com/gin-gonic/gin"
)

const (
	defaultPopularLimit = 10
	maxPopularLimit     = 50
)

type RecommendationHandler struct {
	recService        *services.RecommendationService
	popularityService *services.PopularityService
	registry          *services.ContentRegistry
	tracker           *services.Tracker
	popularWindowDays int
	log               *logger.Logger
}

// NewRecommendationHandler creates a new recommendation handler
func NewRecommendationHandler(
	recService *services.RecommendationService,
	popularityService *services.PopularityService,
	registry *services.ContentRegistry,
	tracker *services.Tracker,
	popularWindowDays int,
	log *logger.Logger,
) *RecommendationHandler {
	return &RecommendationHandler{
		recService:        recService,
		popularityService: popularityService,
		registry:          registry,
		tracker:           tracker,
		popularWindowDays: popularWindowDays,
		log:               log.With("component", "RecommendationHandler"),
	}
}

// GetRecommendations serves the caller's ranked, hydrated recommendations
// GET /api/v1/recommendations?contentType=video&limit=10
func (h *RecommendationHandler) GetRecommendations(c *gin.Context) {
	var req models.RecommendationRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	contentType, ok := parseContentType(req.ContentType)
	if !ok {
		respondBadRequest(c, "unknown contentType "+req.ContentType)
		return
	}

	userID := callerID(c)
	items, err := h.recService.Get(c.Request.Context(), userID, contentType, req.Limit)
	if err != nil {
		// Serving degrades to an empty page rather than failing it
		h.log.Error("Failed to serve recommendations", "user_id", userID, "error", err)
		items = nil
	}

	recommendations := h.registry.HydrateRecommendations(c.Request.Context(), items)
	c.JSON(http.StatusOK, gin.H{
		"recommendations": recommendations,
		"metadata":        models.NewResponseMetadata(len(recommendations), req.Limit, filtersOf("contentType", req.ContentType)),
	})
}

// MarkClicked flags a recommendation of the caller's current set clicked
// POST /api/v1/recommendations/:id/click
func (h *RecommendationHandler) MarkClicked(c *gin.Context) {
	userID := callerID(c)
	item, err := h.recService.MarkClicked(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			respondNotFound(c, "recommendation not found in current set")
			return
		}
		respondInternalError(c, err.Error())
		return
	}

	_, _ = h.tracker.Track(services.EventInput{
		UserID:       userID,
		ActivityType: models.ActivityClick,
		ContentType:  item.ContentType,
		ContentID:    item.ContentID,
		ContentKind:  item.ContentKind,
		Metadata:     map[string]interface{}{models.MetaReferrer: "recommendation:" + string(item.Reason)},
		SessionID:    c.GetHeader(SessionIDHeader),
	})

	c.JSON(http.StatusOK, gin.H{
		"status":         "success",
		"recommendation": item,
	})
}

// Generate forces regeneration of the caller's set
// POST /api/v1/recommendations/generate
func (h *RecommendationHandler) Generate(c *gin.Context) {
	userID := callerID(c)
	set, err := h.recService.Regenerate(c.Request.Context(), userID)
	if err != nil {
		h.log.Error("Forced regeneration failed", "user_id", userID, "error", err)
		respondInternalError(c, "failed to generate recommendations")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":       "success",
		"count":        len(set.Items),
		"generated_at": set.GeneratedAt,
		"expires_at":   set.ExpiresAt,
	})
}

// GetPopular returns hydrated popular content of one type
// GET /api/v1/popular?contentType=post&timeframe=week&limit=10
func (h *RecommendationHandler) GetPopular(c *gin.Context) {
	if c.Query("contentType") == "" {
		respondMissingParam(c, "contentType")
		return
	}
	var req models.PopularRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	contentType := models.ContentType(req.ContentType)
	if !contentType.Valid() {
		respondBadRequest(c, "unknown contentType "+req.ContentType)
		return
	}
	activity := models.ActivityView
	if req.ActivityType != "" {
		activity = models.ActivityType(req.ActivityType)
		if !activity.Valid() {
			respondBadRequest(c, "unknown activityType "+req.ActivityType)
			return
		}
	}

	limit := req.Limit
	if limit <= 0 {
		limit = defaultPopularLimit
	}
	if limit > maxPopularLimit {
		limit = maxPopularLimit
	}
	days := utils.TimeframeDays(req.Timeframe, h.popularWindowDays)

	rows, err := h.popularityService.PopularContent(c.Request.Context(), activity, contentType, days, limit)
	if err != nil {
		respondInternalError(c, err.Error())
		return
	}

	popular := h.registry.HydratePopular(c.Request.Context(), rows)
	filters := filtersOf(
		"contentType", req.ContentType,
		"activityType", string(activity),
		"days", strconv.Itoa(days),
	)
	c.JSON(http.StatusOK, gin.H{
		"popular":  popular,
		"metadata": models.NewResponseMetadata(len(popular), limit, filters),
	})
}
