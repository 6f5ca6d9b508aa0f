package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Musavirkhaliq/SukoonSphere-sub001/logger"
	"github.com/Musavirkhaliq/SukoonSphere-sub001/metrics"
	"github.com/Musavirkhaliq/SukoonSphere-sub001/models"
	"github.com/Musavirkhaliq/SukoonSphere-sub001/utils"

	"github.com/oklog/ulid/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// EventInput describes one interaction to append to the event log
type EventInput struct {
	UserID       string
	ActivityType models.ActivityType
	ContentType  models.ContentType
	ContentID    string
	ContentKind  string
	Metadata     map[string]interface{}
	SessionID    string
}

// Validate checks structural correctness only
func (in EventInput) Validate() error {
	switch {
	case strings.TrimSpace(in.UserID) == "":
		return fmt.Errorf("%w: user id is required", ErrValidation)
	case !in.ActivityType.Valid():
		return fmt.Errorf("%w: unknown activity type %q", ErrValidation, in.ActivityType)
	case !in.ContentType.Valid():
		return fmt.Errorf("%w: unknown content type %q", ErrValidation, in.ContentType)
	case strings.TrimSpace(in.ContentID) == "":
		return fmt.Errorf("%w: content id is required", ErrValidation)
	}
	if err := utils.ValidateGeoPoint(in.Metadata[models.MetaLocation]); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}

// HistoryFilter narrows a history query
type HistoryFilter struct {
	Limit        int
	ActivityType models.ActivityType
	ContentType  models.ContentType
	Since        time.Time
	Until        time.Time
}

// EventService is the event log: an append-only writer plus read paths
type EventService struct {
	db  *gorm.DB
	log *logger.Logger
	now func() time.Time
}

// NewEventService creates a new event log service
func NewEventService(db *gorm.DB, log *logger.Logger) *EventService {
	return &EventService{
		db:  db,
		log: log.With("component", "EventService"),
		now: func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the time source
func (s *EventService) WithClock(now func() time.Time) *EventService {
	s.now = now
	return s
}

// Record appends one event and returns its id. It never returns an error:
// malformed input is discarded and storage failures are logged, so the user
// action that triggered the event is never affected.
func (s *EventService) Record(ctx context.Context, in EventInput) (string, bool) {
	if err := in.Validate(); err != nil {
		metrics.EventsFailed.WithLabelValues("invalid").Inc()
		s.log.Warn("Discarding malformed event", "error", err, "user_id", in.UserID, "activity_type", in.ActivityType)
		return "", false
	}

	kind := in.ContentKind
	if kind == "" {
		kind = string(in.ContentType)
	}

	now := s.now()
	event := models.InteractionEvent{
		ID:           ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()).String(),
		UserID:       in.UserID,
		ActivityType: in.ActivityType,
		ContentType:  in.ContentType,
		ContentID:    in.ContentID,
		ContentKind:  kind,
		Metadata:     datatypes.JSONMap(in.Metadata),
		SessionID:    in.SessionID,
		CreatedAt:    now,
	}

	if err := s.db.WithContext(ctx).Create(&event).Error; err != nil {
		metrics.EventsFailed.WithLabelValues("storage").Inc()
		s.log.Error("Failed to record event", "error", err, "user_id", in.UserID, "activity_type", in.ActivityType)
		return "", false
	}

	metrics.EventsRecorded.WithLabelValues(string(in.ActivityType)).Inc()
	s.log.Debug("Recorded event", "id", event.ID, "user_id", in.UserID, "activity_type", in.ActivityType, "content_id", in.ContentID)
	return event.ID, true
}

// History returns a user's events, newest first
func (s *EventService) History(ctx context.Context, userID string, f HistoryFilter) ([]models.InteractionEvent, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	query := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if f.ActivityType != "" {
		query = query.Where("activity_type = ?", f.ActivityType)
	}
	if f.ContentType != "" {
		query = query.Where("content_type = ?", f.ContentType)
	}
	if !f.Since.IsZero() {
		query = query.Where("created_at >= ?", f.Since)
	}
	if !f.Until.IsZero() {
		query = query.Where("created_at < ?", f.Until)
	}

	var events []models.InteractionEvent
	err := query.Order("created_at DESC").Order("id DESC").Limit(limit).Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch activity history: %w", err)
	}
	return events, nil
}

// GetEventStats returns aggregate statistics about the event log
func (s *EventService) GetEventStats(ctx context.Context) (map[string]interface{}, error) {
	var totalEvents, uniqueContent, uniqueUsers int64

	db := s.db.WithContext(ctx)
	if err := db.Model(&models.InteractionEvent{}).Count(&totalEvents).Error; err != nil {
		return nil, fmt.Errorf("failed to count events: %w", err)
	}
	db.Model(&models.InteractionEvent{}).Distinct("content_id").Count(&uniqueContent)
	db.Model(&models.InteractionEvent{}).Distinct("user_id").Count(&uniqueUsers)

	var rows []struct {
		ActivityType string
		Count        int64
	}
	db.Model(&models.InteractionEvent{}).
		Select("activity_type, COUNT(*) AS count").
		Group("activity_type").
		Scan(&rows)

	byActivity := make(map[string]int64, len(models.AllActivityTypes))
	for _, a := range models.AllActivityTypes {
		byActivity[string(a)] = 0
	}
	for _, r := range rows {
		byActivity[r.ActivityType] = r.Count
	}

	return map[string]interface{}{
		"total_events":   totalEvents,
		"unique_content": uniqueContent,
		"unique_users":   uniqueUsers,
		"by_activity":    byActivity,
	}, nil
}
