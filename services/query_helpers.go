package services

import (
	"context"

	"github.com/Musavirkhaliq/SukoonSphere-sub001/models"

	"gorm.io/gorm"
)

// =============================================================================
// Catalog Query Helpers
// =============================================================================

// RecentByType fetches the newest items of a type. When excludeInteractedBy is
// set, items that user has any event for are left out.
func (s *ContentService) RecentByType(ctx context.Context, contentType models.ContentType, excludeInteractedBy string, limit int) ([]models.ContentItem, error) {
	query := s.db.WithContext(ctx).Model(&models.ContentItem{}).Where("type = ?", contentType)
	if excludeInteractedBy != "" {
		query = s.excludeInteracted(query, excludeInteractedBy)
	}
	return s.fetchNewest(query, limit)
}

// RecentByCreator fetches the newest items of a type authored by creatorID
func (s *ContentService) RecentByCreator(ctx context.Context, creatorID string, contentType models.ContentType, limit int) ([]models.ContentItem, error) {
	query := s.db.WithContext(ctx).Model(&models.ContentItem{}).
		Where("creator_id = ? AND type = ?", creatorID, contentType)
	return s.fetchNewest(query, limit)
}

// ByTags fetches the newest items carrying at least one of tags, with their full tag sets
func (s *ContentService) ByTags(ctx context.Context, tags []string, limit int) ([]models.ContentItem, error) {
	if len(tags) == 0 {
		return []models.ContentItem{}, nil
	}
	db := s.db.WithContext(ctx)
	tagged := db.Model(&models.ContentTag{}).Select("content_id").Where("tag IN ?", tags)
	query := db.Model(&models.ContentItem{}).Where("id IN (?)", tagged)
	return s.fetchNewest(query, limit)
}

// =============================================================================
// Query Building Helpers
// =============================================================================

// excludeInteracted anti-joins the event log on content id
func (s *ContentService) excludeInteracted(query *gorm.DB, userID string) *gorm.DB {
	seen := s.db.Model(&models.InteractionEvent{}).Select("content_id").Where("user_id = ?", userID)
	return query.Where("id NOT IN (?)", seen)
}

// fetchNewest orders by recency, applies limit and preloads tags
func (s *ContentService) fetchNewest(query *gorm.DB, limit int) ([]models.ContentItem, error) {
	var items []models.ContentItem
	if limit <= 0 {
		return items, nil
	}
	err := query.Preload("Tags").Order("created_at DESC").Order("id ASC").Limit(limit).Find(&items).Error
	return items, err
}
