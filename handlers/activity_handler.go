package handlers

import (
	"net/http"

	"github.com/Musavirkhaliq/SukoonSphere-sub001/logger"
	"github.com/Musavirkhaliq/SukoonSphere-sub001/models"
	"github.com/Musavirkhaliq/SukoonSphere-sub001/services"

	"github.com/gin-gonic/gin"
)

type ActivityHandler struct {
	tracker      *services.Tracker
	eventService *services.EventService
	prefService  *services.PreferenceService
	log          *logger.Logger
}

// NewActivityHandler creates a new activity handler
func NewActivityHandler(tracker *services.Tracker, eventService *services.EventService, prefService *services.PreferenceService, log *logger.Logger) *ActivityHandler {
	return &ActivityHandler{
		tracker:      tracker,
		eventService: eventService,
		prefService:  prefService,
		log:          log.With("component", "ActivityHandler"),
	}
}

// RecordActivity queues one interaction of the caller
// POST /api/v1/activity
// Body: {"activity_type": "like", "content_type": "post", "content_id": "...", "metadata": {"tags": ["anxiety"]}}
func (h *ActivityHandler) RecordActivity(c *gin.Context) {
	var req models.RecordActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = c.GetHeader(SessionIDHeader)
	}

	accepted, err := h.tracker.Track(services.EventInput{
		UserID:       callerID(c),
		ActivityType: models.ActivityType(req.ActivityType),
		ContentType:  models.ContentType(req.ContentType),
		ContentID:    req.ContentID,
		ContentKind:  req.ContentKind,
		Metadata:     req.Metadata,
		SessionID:    sessionID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if !accepted {
		h.log.Warn("Activity dropped by ingestion queue", "user_id", callerID(c), "activity_type", req.ActivityType)
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "accepted",
		"queued": accepted,
	})
}

// GetHistory returns the caller's past events, newest first
// GET /api/v1/activity/history?limit=20&activityType=view&contentType=post
func (h *ActivityHandler) GetHistory(c *gin.Context) {
	var req models.HistoryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	activity := models.ActivityType(req.ActivityType)
	if activity != "" && !activity.Valid() {
		respondBadRequest(c, "unknown activityType "+req.ActivityType)
		return
	}
	contentType, ok := parseContentType(req.ContentType)
	if !ok {
		respondBadRequest(c, "unknown contentType "+req.ContentType)
		return
	}

	events, err := h.eventService.History(c.Request.Context(), callerID(c), services.HistoryFilter{
		Limit:        req.Limit,
		ActivityType: activity,
		ContentType:  contentType,
	})
	if err != nil {
		respondInternalError(c, err.Error())
		return
	}

	filters := filtersOf("activityType", req.ActivityType, "contentType", req.ContentType)
	c.JSON(http.StatusOK, gin.H{
		"activities": events,
		"metadata":   models.NewResponseMetadata(len(events), req.Limit, filters),
	})
}

// GetStats returns statistics about the event log
// GET /api/v1/activity/stats
func (h *ActivityHandler) GetStats(c *gin.Context) {
	stats, err := h.eventService.GetEventStats(c.Request.Context())
	if err != nil {
		respondInternalError(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetPreferences returns the caller's ranked preferences, or null before the first event
// GET /api/v1/preferences
func (h *ActivityHandler) GetPreferences(c *gin.Context) {
	profile, err := h.prefService.GetProfile(c.Request.Context(), callerID(c))
	if err != nil {
		h.log.Error("Failed to load preferences", "user_id", callerID(c), "error", err)
		profile = nil
	}

	c.JSON(http.StatusOK, gin.H{
		"preferences": services.Summarize(profile),
	})
}
