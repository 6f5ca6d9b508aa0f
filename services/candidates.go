package services

import (
	"context"
	"fmt"

	"github.com/Musavirkhaliq/SukoonSphere-sub001/models"
	"github.com/Musavirkhaliq/SukoonSphere-sub001/utils"
)

// CandidateGenerator is one independent recommendation strategy. Implementations
// must be safe to run concurrently and must not mutate the profile.
type CandidateGenerator interface {
	Name() string
	Generate(ctx context.Context, profile *models.PreferenceProfile) ([]models.Candidate, error)
}

// PopularitySource is the aggregation the popularity strategy delegates to
type PopularitySource interface {
	PopularContent(ctx context.Context, activityType models.ActivityType, contentType models.ContentType, windowDays, limit int) ([]models.PopularItem, error)
}

// Strategy tuning
const (
	contentTypeTopN    = 3
	contentTypePerType = 5
	contentTypeFactor  = 0.8
	popularPerType     = 5
	popularFactor      = 0.7
	creatorTopN        = 3
	creatorPerType     = 2
	creatorFactor      = 0.8
	tagTopN            = 5
	tagItemLimit       = 10
	tagFactor          = 0.7
	defaultPopularDays = 7
)

func candidateFromItem(item *models.ContentItem, score float64, reason models.RecommendationReason) models.Candidate {
	return models.Candidate{
		ContentID:   item.ID,
		ContentKind: item.Kind,
		ContentType: item.Type,
		Score:       score,
		Reason:      reason,
	}
}

// positive drops non-positive entries; they carry no signal
func positive(in []utils.KeyScore) []utils.KeyScore {
	out := in[:0:0]
	for _, ks := range in {
		if ks.Score > 0 {
			out = append(out, ks)
		}
	}
	return out
}

// =============================================================================
// Content-type preference
// =============================================================================

// ContentTypeStrategy proposes unseen recent content of the user's favourite types
type ContentTypeStrategy struct {
	content ContentSource
}

func NewContentTypeStrategy(content ContentSource) *ContentTypeStrategy {
	return &ContentTypeStrategy{content: content}
}

func (g *ContentTypeStrategy) Name() string { return "content_type" }

func (g *ContentTypeStrategy) Generate(ctx context.Context, profile *models.PreferenceProfile) ([]models.Candidate, error) {
	if profile == nil {
		return nil, nil
	}
	var out []models.Candidate
	for _, pref := range positive(utils.TopN(profile.ContentTypePreferences, contentTypeTopN)) {
		items, err := g.content.RecentByType(ctx, models.ContentType(pref.Key), profile.UserID, contentTypePerType)
		if err != nil {
			return nil, fmt.Errorf("recent %s content: %w", pref.Key, err)
		}
		for i := range items {
			out = append(out, candidateFromItem(&items[i], pref.Score*contentTypeFactor, models.ReasonUserPreference))
		}
	}
	return out, nil
}

// =============================================================================
// Popularity
// =============================================================================

// PopularityStrategy proposes the most viewed content of each major type.
// It is the only strategy that works without a profile.
type PopularityStrategy struct {
	popular    PopularitySource
	windowDays int
}

func NewPopularityStrategy(popular PopularitySource, windowDays int) *PopularityStrategy {
	if windowDays <= 0 {
		windowDays = defaultPopularDays
	}
	return &PopularityStrategy{popular: popular, windowDays: windowDays}
}

func (g *PopularityStrategy) Name() string { return "popularity" }

func (g *PopularityStrategy) Generate(ctx context.Context, _ *models.PreferenceProfile) ([]models.Candidate, error) {
	var out []models.Candidate
	for _, ct := range models.MajorContentTypes {
		rows, err := g.popular.PopularContent(ctx, models.ActivityView, ct, g.windowDays, popularPerType)
		if err != nil {
			return nil, fmt.Errorf("popular %s content: %w", ct, err)
		}
		for _, row := range rows {
			out = append(out, models.Candidate{
				ContentID:   row.ContentID,
				ContentKind: row.ContentKind,
				ContentType: row.ContentType,
				Score:       utils.PopularityScore(row.Count, popularFactor),
				Reason:      models.ReasonPopularContent,
			})
		}
	}
	return out, nil
}

// =============================================================================
// Creator affinity
// =============================================================================

// CreatorAffinityStrategy proposes recent work of the user's favourite creators
type CreatorAffinityStrategy struct {
	content ContentSource
}

func NewCreatorAffinityStrategy(content ContentSource) *CreatorAffinityStrategy {
	return &CreatorAffinityStrategy{content: content}
}

func (g *CreatorAffinityStrategy) Name() string { return "creator_affinity" }

func (g *CreatorAffinityStrategy) Generate(ctx context.Context, profile *models.PreferenceProfile) ([]models.Candidate, error) {
	if profile == nil {
		return nil, nil
	}
	var out []models.Candidate
	for _, creator := range positive(utils.TopN(profile.CreatorScores(), creatorTopN)) {
		for _, ct := range models.MajorContentTypes {
			items, err := g.content.RecentByCreator(ctx, creator.Key, ct, creatorPerType)
			if err != nil {
				return nil, fmt.Errorf("content by creator %s: %w", creator.Key, err)
			}
			for i := range items {
				out = append(out, candidateFromItem(&items[i], creator.Score*creatorFactor, models.ReasonCreatorAffinity))
			}
		}
	}
	return out, nil
}

// =============================================================================
// Tag affinity
// =============================================================================

// TagAffinityStrategy proposes content sharing the user's strongest tags.
// Items are scored by how much of their tag set the user cares about.
type TagAffinityStrategy struct {
	content ContentSource
}

func NewTagAffinityStrategy(content ContentSource) *TagAffinityStrategy {
	return &TagAffinityStrategy{content: content}
}

func (g *TagAffinityStrategy) Name() string { return "tag_affinity" }

func (g *TagAffinityStrategy) Generate(ctx context.Context, profile *models.PreferenceProfile) ([]models.Candidate, error) {
	if profile == nil {
		return nil, nil
	}
	top := positive(utils.TopN(profile.TagPreferences, tagTopN))
	if len(top) == 0 {
		return nil, nil
	}
	weights := make(map[string]float64, len(top))
	tags := make([]string, len(top))
	for i, ks := range top {
		weights[ks.Key] = ks.Score
		tags[i] = ks.Key
	}

	items, err := g.content.ByTags(ctx, tags, tagItemLimit)
	if err != nil {
		return nil, fmt.Errorf("content by tags: %w", err)
	}

	out := make([]models.Candidate, 0, len(items))
	for i := range items {
		itemTags := items[i].TagNames()
		if len(itemTags) == 0 {
			continue
		}
		var sum float64
		for _, t := range itemTags {
			sum += weights[t]
		}
		score := tagFactor * (sum / float64(len(itemTags)))
		out = append(out, candidateFromItem(&items[i], score, models.ReasonTagBased))
	}
	return out, nil
}

// DefaultGenerators returns the four strategies in merge priority order
func DefaultGenerators(content ContentSource, popular PopularitySource, popularWindowDays int) []CandidateGenerator {
	return []CandidateGenerator{
		NewContentTypeStrategy(content),
		NewPopularityStrategy(popular, popularWindowDays),
		NewCreatorAffinityStrategy(content),
		NewTagAffinityStrategy(content),
	}
}
