package models

import "time"

// RecommendationReason identifies which strategy produced an item
type RecommendationReason string

const (
	ReasonContentSimilarity      RecommendationReason = "content_similarity"
	ReasonUserPreference         RecommendationReason = "user_preference"
	ReasonPopularContent         RecommendationReason = "popular_content"
	ReasonCreatorAffinity        RecommendationReason = "creator_affinity"
	ReasonTagBased               RecommendationReason = "tag_based"
	ReasonCategoryBased          RecommendationReason = "category_based"
	ReasonCollaborativeFiltering RecommendationReason = "collaborative_filtering"
)

// SetState is the lifecycle state of a cached recommendation set
type SetState string

const (
	SetAbsent  SetState = "absent"
	SetFresh   SetState = "fresh"
	SetStale   SetState = "stale"
	SetExpired SetState = "expired"
)

// RecommendationSet is the cache header of a user's live recommendations.
// It is replaced wholesale on regeneration.
type RecommendationSet struct {
	UserID      string               `gorm:"primaryKey" json:"user_id"`
	GeneratedAt time.Time            `gorm:"not null" json:"generated_at"`
	ExpiresAt   time.Time            `gorm:"not null;index:idx_recset_expires" json:"expires_at"`
	Items       []RecommendationItem `gorm:"-" json:"items"`
}

func (RecommendationSet) TableName() string { return "recommendation_sets" }

// State classifies the set at now. A nil set is absent.
func (s *RecommendationSet) State(now time.Time, staleAfter time.Duration) SetState {
	if s == nil {
		return SetAbsent
	}
	if !now.Before(s.ExpiresAt) {
		return SetExpired
	}
	if now.Sub(s.GeneratedAt) >= staleAfter {
		return SetStale
	}
	return SetFresh
}

// RecommendationItem is one scored, reasoned entry of a set. Only the shown/clicked
// fields change after creation.
type RecommendationItem struct {
	ID          string               `gorm:"primaryKey;size:36" json:"id"`
	UserID      string               `gorm:"not null;index:idx_recitem_user" json:"-"`
	ContentID   string               `gorm:"not null" json:"content_id"`
	ContentKind string               `gorm:"size:40;not null" json:"content_kind"`
	ContentType ContentType          `gorm:"size:20;not null" json:"content_type"`
	Score       float64              `gorm:"not null" json:"score"`
	Reason      RecommendationReason `gorm:"size:40;not null" json:"reason"`
	Position    int                  `gorm:"not null" json:"-"`
	IsShown     bool                 `gorm:"not null;default:false" json:"is_shown"`
	ShownAt     *time.Time           `json:"shown_at,omitempty"`
	IsClicked   bool                 `gorm:"not null;default:false" json:"is_clicked"`
	ClickedAt   *time.Time           `json:"clicked_at,omitempty"`
}

func (RecommendationItem) TableName() string { return "recommendation_items" }

// GetScore implements utils.Scored
func (r RecommendationItem) GetScore() float64 { return r.Score }

// Candidate is one proposal from a candidate generator
type Candidate struct {
	ContentID   string               `json:"content_id"`
	ContentKind string               `json:"content_kind"`
	ContentType ContentType          `json:"content_type"`
	Score       float64              `json:"score"`
	Reason      RecommendationReason `json:"reason"`
}

// GetScore implements utils.Scored
func (c Candidate) GetScore() float64 { return c.Score }

// PopularItem is one row of a popularity aggregation
type PopularItem struct {
	ContentID   string      `json:"content_id"`
	ContentKind string      `json:"content_kind"`
	ContentType ContentType `json:"content_type"`
	Count       int64       `json:"count"`
}
