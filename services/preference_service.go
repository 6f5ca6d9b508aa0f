package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Musavirkhaliq/SukoonSphere-sub001/logger"
	"github.com/Musavirkhaliq/SukoonSphere-sub001/metrics"
	"github.com/Musavirkhaliq/SukoonSphere-sub001/models"
	"github.com/Musavirkhaliq/SukoonSphere-sub001/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PreferenceEvent is the input of one preference update
type PreferenceEvent struct {
	UserID       string
	ActivityType models.ActivityType
	ContentType  models.ContentType
	ContentID    string
	Metadata     map[string]interface{}
	CreatorID    string
}

// PreferenceService is the preference profile store and its update engine.
// Scores live one row per (user, dimension, key) and are incremented in place
// with a saturating upsert, so concurrent events for a user never lose updates.
type PreferenceService struct {
	db  *gorm.DB
	log *logger.Logger
	now func() time.Time
}

// NewPreferenceService creates a new preference service
func NewPreferenceService(db *gorm.DB, log *logger.Logger) *PreferenceService {
	return &PreferenceService{
		db:  db,
		log: log.With("component", "PreferenceService"),
		now: time.Now,
	}
}

// WithClock overrides the time source. The time-of-day bucket is taken from the
// clock's own location.
func (s *PreferenceService) WithClock(now func() time.Time) *PreferenceService {
	s.now = now
	return s
}

// ApplyEvent folds one event into the user's profile and returns the updated
// profile. Failures are logged and reported as nil.
func (s *PreferenceService) ApplyEvent(ctx context.Context, ev PreferenceEvent) *models.PreferenceProfile {
	if strings.TrimSpace(ev.UserID) == "" {
		metrics.PreferenceUpdates.WithLabelValues("error").Inc()
		s.log.Warn("Skipping preference update without user", "activity_type", ev.ActivityType)
		return nil
	}

	now := s.now()
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.touchProfile(tx, ev.UserID, now); err != nil {
			return err
		}

		weight := models.GetActivityWeight(ev.ActivityType)
		for _, inc := range s.increments(ev, weight, now) {
			if err := s.increment(tx, ev.UserID, inc.dimension, inc.key, inc.amount, now); err != nil {
				return fmt.Errorf("increment %s/%s: %w", inc.dimension, inc.key, err)
			}
		}

		switch ev.ActivityType {
		case models.ActivityTimeSpent:
			if seconds, ok := models.MetadataNumber(ev.Metadata, models.MetaTimeSpent); ok && seconds >= 0 {
				return s.foldEngagement(tx, ev.UserID, "average_time_spent", seconds, nil)
			}
		case models.ActivityComplete:
			completion := models.MetadataCompletion(ev.Metadata)
			media := []models.ContentType{models.ContentVideo, models.ContentPodcast}
			return s.foldEngagement(tx, ev.UserID, "completion_rate", completion, media)
		}
		return nil
	})
	if err != nil {
		metrics.PreferenceUpdates.WithLabelValues("error").Inc()
		s.log.Error("Failed to update preferences",
			"user_id", ev.UserID,
			"activity_type", ev.ActivityType,
			"content_id", ev.ContentID,
			"error", err,
		)
		return nil
	}
	metrics.PreferenceUpdates.WithLabelValues("ok").Inc()

	profile, err := s.GetProfile(ctx, ev.UserID)
	if err != nil {
		s.log.Warn("Updated preferences but failed to reload profile", "user_id", ev.UserID, "error", err)
		return nil
	}
	return profile
}

type scoreIncrement struct {
	dimension models.PreferenceDimension
	key       string
	amount    float64
}

func (s *PreferenceService) increments(ev PreferenceEvent, weight float64, now time.Time) []scoreIncrement {
	var out []scoreIncrement
	if ev.ContentType.IsPreferenceBucket() {
		out = append(out, scoreIncrement{models.DimensionContentType, string(ev.ContentType), weight})
	}
	for _, tag := range models.MetadataTags(ev.Metadata) {
		out = append(out, scoreIncrement{models.DimensionTag, tag, weight})
	}
	if category := strings.ToLower(models.MetadataString(ev.Metadata, models.MetaCategory)); category != "" {
		out = append(out, scoreIncrement{models.DimensionCategory, category, weight})
	}
	if creator := strings.TrimSpace(ev.CreatorID); creator != "" {
		out = append(out, scoreIncrement{models.DimensionCreator, creator, weight})
	}
	out = append(out, scoreIncrement{models.DimensionTimeOfDay, utils.TimeBucket(now), utils.TimeBucketIncrement})
	return out
}

// touchProfile lazily creates the profile header and bumps last_updated
func (s *PreferenceService) touchProfile(tx *gorm.DB, userID string, now time.Time) error {
	record := models.PreferenceProfileRecord{
		UserID:      userID,
		LastUpdated: now.UTC(),
		CreatedAt:   now.UTC(),
	}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"last_updated"}),
	}).Create(&record).Error
}

// increment applies score = min(1, score + amount) as a single upsert
func (s *PreferenceService) increment(tx *gorm.DB, userID string, dim models.PreferenceDimension, key string, amount float64, now time.Time) error {
	row := models.PreferenceScore{
		UserID:    userID,
		Dimension: dim,
		Key:       key,
		Score:     utils.Clamp01(amount),
		UpdatedAt: now.UTC(),
	}
	return tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "dimension"}, {Name: "pref_key"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"score":      gorm.Expr(minFunc(tx)+"(?, preference_scores.score + ?)", 1.0, amount),
			"updated_at": now.UTC(),
		}),
	}).Create(&row).Error
}

// foldEngagement folds x into a running mean over the user's view count,
// optionally restricted to some content types.
func (s *PreferenceService) foldEngagement(tx *gorm.DB, userID, column string, x float64, types []models.ContentType) error {
	query := tx.Model(&models.InteractionEvent{}).
		Where("user_id = ? AND activity_type = ?", userID, models.ActivityView)
	if len(types) > 0 {
		query = query.Where("content_type IN ?", types)
	}
	var n int64
	if err := query.Count(&n).Error; err != nil {
		return fmt.Errorf("count views: %w", err)
	}
	if n < 1 {
		n = 1
	}
	expr := gorm.Expr(fmt.Sprintf("(%s * ? + ?) / ?", column), float64(n-1), x, float64(n))
	return tx.Model(&models.PreferenceProfileRecord{}).
		Where("user_id = ?", userID).
		Update(column, expr).Error
}

// minFunc is the two-argument minimum of the connected dialect
func minFunc(db *gorm.DB) string {
	if db.Dialector.Name() == "postgres" {
		return "LEAST"
	}
	return "MIN"
}

// GetProfile assembles a user's profile, or returns nil when none exists yet
func (s *PreferenceService) GetProfile(ctx context.Context, userID string) (*models.PreferenceProfile, error) {
	db := s.db.WithContext(ctx)

	var record models.PreferenceProfileRecord
	err := db.Where("user_id = ?", userID).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load profile for %s: %w", userID, err)
	}

	var scores []models.PreferenceScore
	if err := db.Where("user_id = ?", userID).Find(&scores).Error; err != nil {
		return nil, fmt.Errorf("failed to load preference scores for %s: %w", userID, err)
	}

	profile := models.NewPreferenceProfile(userID)
	profile.EngagementMetrics = models.EngagementMetrics{
		AverageTimeSpent: record.AverageTimeSpent,
		CompletionRate:   record.CompletionRate,
	}
	profile.LastUpdated = record.LastUpdated

	for _, sc := range scores {
		switch sc.Dimension {
		case models.DimensionContentType:
			profile.ContentTypePreferences[sc.Key] = sc.Score
		case models.DimensionTag:
			profile.TagPreferences[sc.Key] = sc.Score
		case models.DimensionCategory:
			profile.CategoryPreferences[sc.Key] = sc.Score
		case models.DimensionCreator:
			profile.CreatorPreferences = append(profile.CreatorPreferences, models.CreatorPreference{CreatorID: sc.Key, Score: sc.Score})
		case models.DimensionTimeOfDay:
			profile.TimePreferences[sc.Key] = sc.Score
		}
	}
	sort.Slice(profile.CreatorPreferences, func(i, j int) bool {
		a, b := profile.CreatorPreferences[i], profile.CreatorPreferences[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		return a.CreatorID < b.CreatorID
	})
	return profile, nil
}

// Summarize reduces a profile to the ranked view served by GET /preferences
func Summarize(p *models.PreferenceProfile) *models.PreferenceSummary {
	if p == nil {
		return nil
	}
	creators := p.CreatorPreferences
	if len(creators) > 5 {
		creators = creators[:5]
	}
	return &models.PreferenceSummary{
		TopContentTypes:   scoredKeys(utils.TopN(p.ContentTypePreferences, 5)),
		TopTags:           scoredKeys(utils.TopN(p.TagPreferences, 10)),
		TopCategories:     scoredKeys(utils.TopN(p.CategoryPreferences, 10)),
		TopCreators:       creators,
		TimeDistribution:  p.TimePreferences,
		EngagementMetrics: p.EngagementMetrics,
		LastUpdated:       p.LastUpdated,
	}
}

func scoredKeys(in []utils.KeyScore) []models.ScoredKey {
	out := make([]models.ScoredKey, len(in))
	for i, ks := range in {
		out[i] = models.ScoredKey{Key: ks.Key, Score: ks.Score}
	}
	return out
}
