package services

import (
	"context"
	"fmt"
	"time"

	"github.com/Musavirkhaliq/SukoonSphere-sub001/models"

	"gorm.io/gorm"
)

// PopularityService derives time-windowed interaction counts from the event log.
// It holds no state; every call reads the log directly.
type PopularityService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewPopularityService creates a new popularity aggregator
func NewPopularityService(db *gorm.DB) *PopularityService {
	return &PopularityService{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the time source
func (s *PopularityService) WithClock(now func() time.Time) *PopularityService {
	s.now = now
	return s
}

// PopularContent counts events of activityType on contentType created within the
// trailing windowDays, grouped by content, highest count first. Ties keep log order.
func (s *PopularityService) PopularContent(ctx context.Context, activityType models.ActivityType, contentType models.ContentType, windowDays, limit int) ([]models.PopularItem, error) {
	if limit <= 0 {
		return []models.PopularItem{}, nil
	}
	if windowDays <= 0 {
		windowDays = 7
	}
	since := s.now().Add(-time.Duration(windowDays) * 24 * time.Hour)

	var rows []models.PopularItem
	err := s.db.WithContext(ctx).
		Model(&models.InteractionEvent{}).
		Select("content_id, MIN(content_kind) AS content_kind, content_type, COUNT(*) AS count").
		Where("activity_type = ? AND content_type = ? AND created_at >= ?", activityType, contentType, since).
		Group("content_id, content_type").
		Order("count DESC").
		Order("MIN(id) ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate popular content: %w", err)
	}
	if rows == nil {
		rows = []models.PopularItem{}
	}
	return rows, nil
}
