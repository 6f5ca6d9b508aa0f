package models

import (
	"time"

	"gorm.io/datatypes"
)

// ActivityType is the closed set of interactions the event log accepts
type ActivityType string

const (
	ActivityView      ActivityType = "view"
	ActivityLike      ActivityType = "like"
	ActivityComment   ActivityType = "comment"
	ActivityShare     ActivityType = "share"
	ActivitySearch    ActivityType = "search"
	ActivityClick     ActivityType = "click"
	ActivityComplete  ActivityType = "complete"
	ActivityBookmark  ActivityType = "bookmark"
	ActivityFollow    ActivityType = "follow"
	ActivityTimeSpent ActivityType = "time_spent"
)

// AllActivityTypes lists every accepted activity type
var AllActivityTypes = []ActivityType{
	ActivityView, ActivityLike, ActivityComment, ActivityShare, ActivitySearch,
	ActivityClick, ActivityComplete, ActivityBookmark, ActivityFollow, ActivityTimeSpent,
}

// Valid reports whether a is one of the accepted activity types
func (a ActivityType) Valid() bool {
	for _, t := range AllActivityTypes {
		if a == t {
			return true
		}
	}
	return false
}

// DefaultActivityWeight applies to activity types missing from the weight table
const DefaultActivityWeight = 0.10

var activityWeights = map[ActivityType]float64{
	ActivityView:      0.05,
	ActivityClick:     0.10,
	ActivityLike:      0.20,
	ActivityComment:   0.30,
	ActivityShare:     0.40,
	ActivityBookmark:  0.40,
	ActivityComplete:  0.50,
	ActivityFollow:    0.30,
	ActivityTimeSpent: 0.10,
}

// GetActivityWeight returns the preference increment for an activity type
func GetActivityWeight(activity ActivityType) float64 {
	if w, ok := activityWeights[activity]; ok {
		return w
	}
	return DefaultActivityWeight
}

// ContentType identifies what kind of thing an event refers to
type ContentType string

const (
	ContentPost     ContentType = "post"
	ContentArticle  ContentType = "article"
	ContentVideo    ContentType = "video"
	ContentPodcast  ContentType = "podcast"
	ContentQuestion ContentType = "question"
	ContentAnswer   ContentType = "answer"
	ContentProfile  ContentType = "profile"
	ContentCategory ContentType = "category"
	ContentTypeTag  ContentType = "tag"
)

var allContentTypes = []ContentType{
	ContentPost, ContentArticle, ContentVideo, ContentPodcast, ContentQuestion,
	ContentAnswer, ContentProfile, ContentCategory, ContentTypeTag,
}

// PreferenceContentTypes are the buckets tracked in contentTypePreferences
var PreferenceContentTypes = []ContentType{
	ContentPost, ContentArticle, ContentVideo, ContentPodcast, ContentQuestion, ContentAnswer,
}

// MajorContentTypes are the recommendable types scanned by popularity and creator strategies
var MajorContentTypes = []ContentType{
	ContentPost, ContentArticle, ContentVideo, ContentPodcast, ContentQuestion,
}

// Valid reports whether c is a known content type
func (c ContentType) Valid() bool {
	for _, t := range allContentTypes {
		if c == t {
			return true
		}
	}
	return false
}

// IsPreferenceBucket reports whether c has a contentTypePreferences bucket
func (c ContentType) IsPreferenceBucket() bool {
	for _, t := range PreferenceContentTypes {
		if c == t {
			return true
		}
	}
	return false
}

// IsMedia reports whether completion tracking applies to c
func (c ContentType) IsMedia() bool {
	return c == ContentVideo || c == ContentPodcast
}

// InteractionEvent is one append-only row of the event log.
// Rows are never updated or deleted by this service.
type InteractionEvent struct {
	ID           string            `gorm:"primaryKey;size:26" json:"id"` // ULID, time ordered
	UserID       string            `gorm:"not null;index:idx_event_user_time,priority:1" json:"user_id"`
	ActivityType ActivityType      `gorm:"size:20;not null;index:idx_event_activity" json:"activity_type"`
	ContentType  ContentType       `gorm:"size:20;not null;index:idx_event_content_type" json:"content_type"`
	ContentID    string            `gorm:"not null;index:idx_event_content" json:"content_id"`
	ContentKind  string            `gorm:"size:40;not null" json:"content_kind"`
	Metadata     datatypes.JSONMap `json:"metadata,omitempty"`
	SessionID    string            `gorm:"index:idx_event_session" json:"session_id,omitempty"`
	CreatedAt    time.Time         `gorm:"not null;index:idx_event_user_time,priority:2;index:idx_event_created" json:"created_at"`
}

func (InteractionEvent) TableName() string { return "interaction_events" }
