package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Musavirkhaliq/SukoonSphere-sub001/logger"
	"github.com/Musavirkhaliq/SukoonSphere-sub001/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ContentSource is the catalog view the candidate generators read from
type ContentSource interface {
	RecentByType(ctx context.Context, contentType models.ContentType, excludeInteractedBy string, limit int) ([]models.ContentItem, error)
	RecentByCreator(ctx context.Context, creatorID string, contentType models.ContentType, limit int) ([]models.ContentItem, error)
	ByTags(ctx context.Context, tags []string, limit int) ([]models.ContentItem, error)
}

// ContentService owns the content catalog: the projection of collaborator content
// the engine needs to generate and hydrate recommendations.
type ContentService struct {
	db  *gorm.DB
	log *logger.Logger
}

// NewContentService creates a new content catalog service
func NewContentService(db *gorm.DB, log *logger.Logger) *ContentService {
	return &ContentService{
		db:  db,
		log: log.With("component", "ContentService"),
	}
}

// Upsert inserts or replaces a catalog item and its tag set
func (s *ContentService) Upsert(ctx context.Context, item models.ContentItem, tags []string) (*models.ContentItem, error) {
	if strings.TrimSpace(item.ID) == "" || strings.TrimSpace(item.Kind) == "" {
		return nil, fmt.Errorf("%w: id and kind are required", ErrValidation)
	}
	if !item.Type.Valid() {
		return nil, fmt.Errorf("%w: unknown content type %q", ErrValidation, item.Type)
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}
	item.Category = strings.ToLower(strings.TrimSpace(item.Category))
	item.Tags = models.NewContentTags(item.ID, tags)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Tags").Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"kind", "type", "title", "description", "preview_url",
				"creator_id", "category", "updated_at",
			}),
		}).Create(&item).Error; err != nil {
			return err
		}
		if err := tx.Where("content_id = ?", item.ID).Delete(&models.ContentTag{}).Error; err != nil {
			return err
		}
		if len(item.Tags) > 0 {
			return tx.Create(&item.Tags).Error
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upsert content %s: %w", item.ID, err)
	}
	return &item, nil
}

// GetByID retrieves a single catalog item with its tags
func (s *ContentService) GetByID(ctx context.Context, id string) (*models.ContentItem, error) {
	var item models.ContentItem
	err := s.db.WithContext(ctx).Preload("Tags").Where("id = ?", id).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: content %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load content %s: %w", id, err)
	}
	return &item, nil
}

// CreatorOf returns the creator of a catalog item, or "" if unknown
func (s *ContentService) CreatorOf(ctx context.Context, id string) string {
	var creators []string
	err := s.db.WithContext(ctx).Model(&models.ContentItem{}).
		Where("id = ?", id).
		Limit(1).
		Pluck("creator_id", &creators).Error
	if err != nil {
		s.log.Warn("Failed to resolve creator", "content_id", id, "error", err)
		return ""
	}
	if len(creators) == 0 {
		return ""
	}
	return creators[0]
}

// Lookup resolves catalog items by id into summaries, keyed by id
func (s *ContentService) Lookup(ctx context.Context, ids []string) (map[string]models.ContentSummary, error) {
	out := make(map[string]models.ContentSummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var items []models.ContentItem
	if err := s.db.WithContext(ctx).Preload("Tags").Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to look up content: %w", err)
	}
	for i := range items {
		out[items[i].ID] = items[i].ToSummary()
	}
	return out, nil
}

// GetCatalogStats returns statistics about the catalog
func (s *ContentService) GetCatalogStats(ctx context.Context) (map[string]interface{}, error) {
	var total int64
	var creators, tags []string

	db := s.db.WithContext(ctx)
	if err := db.Model(&models.ContentItem{}).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count content: %w", err)
	}
	db.Model(&models.ContentItem{}).Distinct("creator_id").Pluck("creator_id", &creators)
	db.Model(&models.ContentTag{}).Distinct("tag").Pluck("tag", &tags)

	return map[string]interface{}{
		"total_items":     total,
		"unique_creators": len(creators),
		"unique_tags":     len(tags),
	}, nil
}
