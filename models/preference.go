package models

import "time"

// PreferenceDimension names one family of preference scores
type PreferenceDimension string

const (
	DimensionContentType PreferenceDimension = "content_type"
	DimensionTag         PreferenceDimension = "tag"
	DimensionCategory    PreferenceDimension = "category"
	DimensionCreator     PreferenceDimension = "creator"
	DimensionTimeOfDay   PreferenceDimension = "time_of_day"
)

// Time-of-day buckets
const (
	TimeMorning   = "morning"
	TimeAfternoon = "afternoon"
	TimeEvening   = "evening"
	TimeNight     = "night"
)

var TimeBuckets = []string{TimeMorning, TimeAfternoon, TimeEvening, TimeNight}

// PreferenceProfileRecord is the per-user header row: engagement metrics and bookkeeping.
type PreferenceProfileRecord struct {
	UserID           string    `gorm:"primaryKey" json:"user_id"`
	AverageTimeSpent float64   `gorm:"not null;default:0" json:"average_time_spent"`
	CompletionRate   float64   `gorm:"not null;default:0" json:"completion_rate"`
	LastUpdated      time.Time `gorm:"not null" json:"last_updated"`
	CreatedAt        time.Time `json:"created_at"`
}

func (PreferenceProfileRecord) TableName() string { return "preference_profiles" }

// PreferenceScore holds one clamped affinity score. One row per (user, dimension, key)
// so increments can be applied atomically in a single upsert.
type PreferenceScore struct {
	ID        uint                `gorm:"primaryKey" json:"-"`
	UserID    string              `gorm:"not null;uniqueIndex:idx_pref_key,priority:1" json:"user_id"`
	Dimension PreferenceDimension `gorm:"size:20;not null;uniqueIndex:idx_pref_key,priority:2" json:"dimension"`
	Key       string              `gorm:"column:pref_key;not null;uniqueIndex:idx_pref_key,priority:3" json:"key"`
	Score     float64             `gorm:"not null;default:0" json:"score"`
	UpdatedAt time.Time           `json:"updated_at"`
}

func (PreferenceScore) TableName() string { return "preference_scores" }

// CreatorPreference is one entry of PreferenceProfile.CreatorPreferences
type CreatorPreference struct {
	CreatorID string  `json:"creator_id"`
	Score     float64 `json:"score"`
}

// EngagementMetrics are the rolling engagement averages of a user
type EngagementMetrics struct {
	AverageTimeSpent float64 `json:"average_time_spent"`
	CompletionRate   float64 `json:"completion_rate"`
}

// PreferenceProfile is the assembled view of a user's preferences. Every score is in [0,1].
type PreferenceProfile struct {
	UserID                 string              `json:"user_id"`
	ContentTypePreferences map[string]float64  `json:"content_type_preferences"`
	TagPreferences         map[string]float64  `json:"tag_preferences"`
	CategoryPreferences    map[string]float64  `json:"category_preferences"`
	CreatorPreferences     []CreatorPreference `json:"creator_preferences"`
	TimePreferences        map[string]float64  `json:"time_preferences"`
	EngagementMetrics      EngagementMetrics   `json:"engagement_metrics"`
	LastUpdated            time.Time           `json:"last_updated"`
}

// NewPreferenceProfile returns an empty profile with all maps allocated
func NewPreferenceProfile(userID string) *PreferenceProfile {
	p := &PreferenceProfile{
		UserID:                 userID,
		ContentTypePreferences: make(map[string]float64),
		TagPreferences:         make(map[string]float64),
		CategoryPreferences:    make(map[string]float64),
		CreatorPreferences:     []CreatorPreference{},
		TimePreferences:        make(map[string]float64, len(TimeBuckets)),
	}
	for _, b := range TimeBuckets {
		p.TimePreferences[b] = 0
	}
	return p
}

// CreatorScores returns the creator preferences as a map
func (p *PreferenceProfile) CreatorScores() map[string]float64 {
	out := make(map[string]float64, len(p.CreatorPreferences))
	for _, c := range p.CreatorPreferences {
		out[c.CreatorID] = c.Score
	}
	return out
}
