package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Musavirkhaliq/SukoonSphere-sub001/logger"
	"github.com/Musavirkhaliq/SukoonSphere-sub001/metrics"
	"github.com/Musavirkhaliq/SukoonSphere-sub001/models"
	"github.com/Musavirkhaliq/SukoonSphere-sub001/utils"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	defaultRecommendationLimit = 20
	maxRecommendationLimit     = 100
)

// ProfileSource loads the profile candidate generators run against
type ProfileSource interface {
	GetProfile(ctx context.Context, userID string) (*models.PreferenceProfile, error)
}

// RecommendationOptions controls cache lifetime
type RecommendationOptions struct {
	TTL        time.Duration
	StaleAfter time.Duration
}

// RecommendationService synthesizes, caches and serves per-user recommendation sets.
//
// A set is fresh for StaleAfter, then stale until TTL, then expired. Reads of a
// fresh set are served from the cache; any other state regenerates first.
// Concurrent regenerations for one user are not serialized: both run and the
// last write wins.
type RecommendationService struct {
	db         *gorm.DB
	profiles   ProfileSource
	generators []CandidateGenerator
	log        *logger.Logger
	ttl        time.Duration
	staleAfter time.Duration
	now        func() time.Time
}

// NewRecommendationService creates a new recommendation synthesizer
func NewRecommendationService(db *gorm.DB, profiles ProfileSource, generators []CandidateGenerator, opts RecommendationOptions, log *logger.Logger) *RecommendationService {
	if opts.TTL <= 0 {
		opts.TTL = 24 * time.Hour
	}
	if opts.StaleAfter <= 0 || opts.StaleAfter > opts.TTL {
		opts.StaleAfter = opts.TTL / 2
	}
	return &RecommendationService{
		db:         db,
		profiles:   profiles,
		generators: generators,
		log:        log.With("component", "RecommendationService"),
		ttl:        opts.TTL,
		staleAfter: opts.StaleAfter,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the time source
func (s *RecommendationService) WithClock(now func() time.Time) *RecommendationService {
	s.now = now
	return s
}

// Get serves up to limit items of the user's current set, best first, optionally
// restricted to one content type. Returned items are flagged shown.
func (s *RecommendationService) Get(ctx context.Context, userID string, contentType models.ContentType, limit int) ([]models.RecommendationItem, error) {
	if limit <= 0 {
		limit = defaultRecommendationLimit
	}
	if limit > maxRecommendationLimit {
		limit = maxRecommendationLimit
	}

	set, err := s.loadSet(ctx, userID)
	if err != nil {
		return nil, err
	}

	state := set.State(s.now(), s.staleAfter)
	if state != models.SetFresh {
		regenerated, genErr := s.Regenerate(ctx, userID)
		switch {
		case genErr == nil:
			set = regenerated
		case state == models.SetStale:
			s.log.Warn("Regeneration failed, serving stale set", "user_id", userID, "error", genErr)
		default:
			return nil, genErr
		}
	}

	items := make([]models.RecommendationItem, 0, len(set.Items))
	for _, item := range set.Items {
		if contentType == "" || item.ContentType == contentType {
			items = append(items, item)
		}
	}
	utils.SortByScore(items, utils.Descending)
	items = utils.Truncate(items, limit)

	if err := s.markShown(ctx, userID, items); err != nil {
		s.log.Warn("Failed to flag recommendations shown", "user_id", userID, "error", err)
	}
	metrics.RecommendationsServed.Add(float64(len(items)))
	return items, nil
}

// markShown flags items shown. Already-shown items keep their first shown_at.
func (s *RecommendationService) markShown(ctx context.Context, userID string, items []models.RecommendationItem) error {
	var ids []string
	for _, item := range items {
		if !item.IsShown {
			ids = append(ids, item.ID)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	now := s.now()
	err := s.db.WithContext(ctx).Model(&models.RecommendationItem{}).
		Where("user_id = ? AND id IN ? AND is_shown = ?", userID, ids, false).
		Updates(map[string]interface{}{"is_shown": true, "shown_at": now}).Error
	if err != nil {
		return err
	}
	for i := range items {
		if !items[i].IsShown {
			shownAt := now
			items[i].IsShown = true
			items[i].ShownAt = &shownAt
		}
	}
	return nil
}

// Regenerate runs every candidate generator against the user's profile and
// replaces the cached set. A failing generator only loses its own candidates;
// ErrGeneration is returned when all of them fail.
func (s *RecommendationService) Regenerate(ctx context.Context, userID string) (*models.RecommendationSet, error) {
	start := time.Now()
	defer func() { metrics.GenerationDuration.Observe(time.Since(start).Seconds()) }()

	profile, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		s.log.Warn("Failed to load profile, generating as cold start", "user_id", userID, "error", err)
		profile = nil
	}

	results := make([][]models.Candidate, len(s.generators))
	errs := make([]error, len(s.generators))
	var g errgroup.Group
	for i, gen := range s.generators {
		i, gen := i, gen
		g.Go(func() error {
			candidates, err := gen.Generate(ctx, profile)
			if err != nil {
				metrics.StrategyFailures.WithLabelValues(gen.Name()).Inc()
				s.log.Error("Candidate generator failed", "strategy", gen.Name(), "user_id", userID, "error", err)
				errs[i] = fmt.Errorf("%s: %w", gen.Name(), err)
				return nil
			}
			results[i] = candidates
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, err := range errs {
		if err != nil {
			failed++
		}
	}
	if len(s.generators) > 0 && failed == len(s.generators) {
		return nil, fmt.Errorf("%w: %w", ErrGeneration, errors.Join(errs...))
	}

	candidates := MergeCandidates(results...)
	utils.SortByScore(candidates, utils.Descending)

	now := s.now()
	set := &models.RecommendationSet{
		UserID:      userID,
		GeneratedAt: now,
		ExpiresAt:   now.Add(s.ttl),
		Items:       make([]models.RecommendationItem, len(candidates)),
	}
	for i, c := range candidates {
		set.Items[i] = models.RecommendationItem{
			ID:          uuid.NewString(),
			UserID:      userID,
			ContentID:   c.ContentID,
			ContentKind: c.ContentKind,
			ContentType: c.ContentType,
			Score:       c.Score,
			Reason:      c.Reason,
			Position:    i,
		}
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// The header upsert locks the user's row first, so concurrent
		// regenerations replace items one after another instead of merging.
		if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(set).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.RecommendationItem{}).Error; err != nil {
			return err
		}
		if len(set.Items) > 0 {
			return tx.CreateInBatches(set.Items, 100).Error
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store recommendations for %s: %w", userID, err)
	}

	s.log.Info("Regenerated recommendations",
		"user_id", userID,
		"items", len(set.Items),
		"failed_strategies", failed,
	)
	return set, nil
}

// MergeCandidates concatenates strategy outputs in order, keeping the first
// proposal for each content id.
func MergeCandidates(groups ...[]models.Candidate) []models.Candidate {
	seen := make(map[string]bool)
	var out []models.Candidate
	for _, group := range groups {
		for _, c := range group {
			if seen[c.ContentID] {
				continue
			}
			seen[c.ContentID] = true
			out = append(out, c)
		}
	}
	return out
}

// MarkClicked flags one item of the user's live set clicked. ref may be the
// recommendation id or the content id.
func (s *RecommendationService) MarkClicked(ctx context.Context, userID, ref string) (*models.RecommendationItem, error) {
	set, err := s.loadHeader(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if set == nil || set.State(now, s.staleAfter) == models.SetExpired {
		return nil, fmt.Errorf("%w: recommendation %s", ErrNotFound, ref)
	}

	var item models.RecommendationItem
	err = s.db.WithContext(ctx).
		Where("user_id = ? AND (id = ? OR content_id = ?)", userID, ref, ref).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: recommendation %s", ErrNotFound, ref)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load recommendation %s: %w", ref, err)
	}

	if !item.IsClicked {
		err = s.db.WithContext(ctx).Model(&models.RecommendationItem{}).
			Where("id = ? AND user_id = ?", item.ID, userID).
			Updates(map[string]interface{}{"is_clicked": true, "clicked_at": now}).Error
		if err != nil {
			return nil, fmt.Errorf("failed to mark recommendation %s clicked: %w", ref, err)
		}
		item.IsClicked = true
		item.ClickedAt = &now
		metrics.RecommendationsClicked.Inc()
	}
	return &item, nil
}

// SweepExpired deletes every set past its expiry along with its items
func (s *RecommendationService) SweepExpired(ctx context.Context) (int64, error) {
	now := s.now()
	var removed int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		expired := tx.Model(&models.RecommendationSet{}).Select("user_id").Where("expires_at <= ?", now)
		if err := tx.Where("user_id IN (?)", expired).Delete(&models.RecommendationItem{}).Error; err != nil {
			return err
		}
		res := tx.Where("expires_at <= ?", now).Delete(&models.RecommendationSet{})
		removed = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return 0, fmt.Errorf("failed to sweep expired recommendations: %w", err)
	}
	if removed > 0 {
		metrics.RecommendationSetsExpired.Add(float64(removed))
		s.log.Info("Swept expired recommendation sets", "count", removed)
	}
	return removed, nil
}

// RunSweeper calls SweepExpired every interval until ctx is done
func (s *RecommendationService) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.SweepExpired(ctx); err != nil {
				s.log.Error("Expiry sweep failed", "error", err)
			}
		}
	}
}

func (s *RecommendationService) loadHeader(ctx context.Context, userID string) (*models.RecommendationSet, error) {
	var set models.RecommendationSet
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&set).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load recommendation set for %s: %w", userID, err)
	}
	return &set, nil
}

func (s *RecommendationService) loadSet(ctx context.Context, userID string) (*models.RecommendationSet, error) {
	set, err := s.loadHeader(ctx, userID)
	if err != nil || set == nil {
		return set, err
	}
	err = s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("position ASC").
		Find(&set.Items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load recommendation items for %s: %w", userID, err)
	}
	return set, nil
}
