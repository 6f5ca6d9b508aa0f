package models

import (
	"encoding/json"
	"strings"
	"time"
)

// ContentItem is the catalog projection of a piece of content owned by a collaborator
// subsystem (post, article, video ...). ContentKind + ID form the polymorphic reference.
type ContentItem struct {
	ID          string       `gorm:"primaryKey" json:"id"`
	Kind        string       `gorm:"size:40;not null;index:idx_content_kind" json:"kind"`
	Type        ContentType  `gorm:"size:20;not null;index:idx_content_type_created,priority:1" json:"type"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	PreviewURL  string       `json:"preview_url,omitempty"`
	CreatorID   string       `gorm:"index:idx_content_creator" json:"creator_id"`
	Category    string       `gorm:"index:idx_content_category" json:"category,omitempty"`
	Tags        []ContentTag `gorm:"foreignKey:ContentID;references:ID;constraint:OnDelete:CASCADE" json:"tags,omitempty"`
	CreatedAt   time.Time    `gorm:"index:idx_content_type_created,priority:2" json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

func (ContentItem) TableName() string { return "content_items" }

// ContentTag links a content item to one lowercase tag
type ContentTag struct {
	ContentID string `gorm:"primaryKey" json:"-"`
	Tag       string `gorm:"primaryKey;index:idx_content_tag" json:"tag"`
}

func (ContentTag) TableName() string { return "content_tags" }

// TagNames returns the item's tags as strings
func (c *ContentItem) TagNames() []string {
	names := make([]string, len(c.Tags))
	for i, t := range c.Tags {
		names[i] = t.Tag
	}
	return names
}

// ContentSummary is the small projection used to hydrate recommendation responses
type ContentSummary struct {
	ID          string      `json:"id"`
	Kind        string      `json:"kind"`
	Type        ContentType `json:"type"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	PreviewURL  string      `json:"preview_url,omitempty"`
	CreatorID   string      `json:"creator_id"`
	Tags        []string    `json:"tags,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}

// ToSummary converts a ContentItem to its hydration projection
func (c *ContentItem) ToSummary() ContentSummary {
	return ContentSummary{
		ID:          c.ID,
		Kind:        c.Kind,
		Type:        c.Type,
		Title:       c.Title,
		Description: c.Description,
		PreviewURL:  c.PreviewURL,
		CreatorID:   c.CreatorID,
		Tags:        c.TagNames(),
		CreatedAt:   c.CreatedAt,
	}
}

// UnmarshalJSON accepts the seed-file format: tags as a string array and a
// timezone-less created_at timestamp.
func (c *ContentItem) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID          string   `json:"id"`
		Kind        string   `json:"kind"`
		Type        string   `json:"type"`
		Title       string   `json:"title"`
		Description string   `json:"description"`
		PreviewURL  string   `json:"preview_url"`
		CreatorID   string   `json:"creator_id"`
		Category    string   `json:"category"`
		Tags        []string `json:"tags"`
		CreatedAt   string   `json:"created_at"`
	}

	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	createdAt := time.Now().UTC()
	if raw.CreatedAt != "" {
		t, err := time.Parse(time.RFC3339, raw.CreatedAt)
		if err != nil {
			t, err = time.Parse("2006-01-02T15:04:05", raw.CreatedAt)
			if err != nil {
				return err
			}
		}
		createdAt = t
	}

	c.ID = raw.ID
	c.Kind = raw.Kind
	c.Type = ContentType(strings.ToLower(raw.Type))
	c.Title = raw.Title
	c.Description = raw.Description
	c.PreviewURL = raw.PreviewURL
	c.CreatorID = raw.CreatorID
	c.Category = strings.ToLower(strings.TrimSpace(raw.Category))
	c.CreatedAt = createdAt
	c.Tags = NewContentTags(raw.ID, raw.Tags)
	if c.Kind == "" {
		c.Kind = string(c.Type)
	}

	return nil
}

// NewContentTags normalizes and deduplicates tags for a content item
func NewContentTags(contentID string, tags []string) []ContentTag {
	seen := make(map[string]bool, len(tags))
	out := make([]ContentTag, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, ContentTag{ContentID: contentID, Tag: t})
	}
	return out
}
