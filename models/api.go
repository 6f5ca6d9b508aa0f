package models

import "time"

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// RecordActivityRequest is the body of POST /activity
type RecordActivityRequest struct {
	ActivityType string                 `json:"activity_type" binding:"required"`
	ContentType  string                 `json:"content_type" binding:"required"`
	ContentID    string                 `json:"content_id" binding:"required"`
	ContentKind  string                 `json:"content_kind"`
	Metadata     map[string]interface{} `json:"metadata"`
	SessionID    string                 `json:"session_id"`
}

// HistoryRequest holds the query of GET /activity/history
type HistoryRequest struct {
	Limit        int    `form:"limit"`
	ActivityType string `form:"activityType"`
	ContentType  string `form:"contentType"`
}

// RecommendationRequest holds the query of GET /recommendations
type RecommendationRequest struct {
	ContentType string `form:"contentType"`
	Limit       int    `form:"limit"`
}

// PopularRequest holds the query of GET /popular
type PopularRequest struct {
	ContentType  string `form:"contentType" binding:"required"`
	ActivityType string `form:"activityType"`
	Timeframe    string `form:"timeframe"` // "day", "week", "month" or a number of days
	Limit        int    `form:"limit"`
}

// UpsertContentRequest is the body of PUT /content
type UpsertContentRequest struct {
	ID          string    `json:"id" binding:"required"`
	Kind        string    `json:"kind" binding:"required"`
	Type        string    `json:"type" binding:"required"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	PreviewURL  string    `json:"preview_url"`
	CreatorID   string    `json:"creator_id"`
	Category    string    `json:"category"`
	Tags        []string  `json:"tags"`
	CreatedAt   time.Time `json:"created_at"`
}

// RecommendationResponseItem is a hydrated recommendation
type RecommendationResponseItem struct {
	ID          string               `json:"id"`
	ContentID   string               `json:"content_id"`
	ContentKind string               `json:"content_kind"`
	ContentType ContentType          `json:"content_type"`
	Score       float64              `json:"score"`
	Reason      RecommendationReason `json:"reason"`
	IsClicked   bool                 `json:"is_clicked"`
	Content     ContentSummary       `json:"content"`
}

// PopularResponseItem is a hydrated popularity row
type PopularResponseItem struct {
	ContentID   string         `json:"content_id"`
	ContentKind string         `json:"content_kind"`
	ContentType ContentType    `json:"content_type"`
	Count       int64          `json:"count"`
	Content     ContentSummary `json:"content"`
}

// ScoredKey is one ranked preference key
type ScoredKey struct {
	Key   string  `json:"key"`
	Score float64 `json:"score"`
}

// PreferenceSummary is the body of GET /preferences
type PreferenceSummary struct {
	TopContentTypes   []ScoredKey         `json:"top_content_types"`
	TopTags           []ScoredKey         `json:"top_tags"`
	TopCategories     []ScoredKey         `json:"top_categories"`
	TopCreators       []CreatorPreference `json:"top_creators"`
	TimeDistribution  map[string]float64  `json:"time_distribution"`
	EngagementMetrics EngagementMetrics   `json:"engagement_metrics"`
	LastUpdated       time.Time           `json:"last_updated"`
}

// ResponseMetadata contains pagination and query information for API responses
type ResponseMetadata struct {
	Count   int               `json:"count"`             // Number of items returned
	Limit   int               `json:"limit"`             // Requested page size
	Filters map[string]string `json:"filters,omitempty"` // Applied filters
}

// NewResponseMetadata creates a new ResponseMetadata
func NewResponseMetadata(count, limit int, filters map[string]string) *ResponseMetadata {
	return &ResponseMetadata{
		Count:   count,
		Limit:   limit,
		Filters: filters,
	}
}
