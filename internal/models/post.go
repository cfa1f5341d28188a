package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Section values a post can belong to. The vocabulary is fixed; anything
// else is rejected at the API boundary.
const (
	SectionLatest   = "latest"
	SectionPopular  = "popular"
	SectionOthers   = "others"
	SectionFeatured = "featured"
)

// Sections returns the fixed section vocabulary in display order.
func Sections() []string {
	return []string{SectionLatest, SectionPopular, SectionOthers, SectionFeatured}
}

// StringList is a JSON-encoded list of short strings stored in a single
// column. Membership checks are exact element comparisons, never substring
// matches against the serialized form.
type StringList []string

// Value implements driver.Valuer for JSON storage.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("encoding string list: %w", err)
	}
	return string(b), nil
}

// Scan implements sql.Scanner for JSON storage.
func (l *StringList) Scan(src any) error {
	if src == nil {
		*l = nil
		return nil
	}
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported string list source type %T", src)
	}
	if len(data) == 0 {
		*l = nil
		return nil
	}
	return json.Unmarshal(data, l)
}

// GormDataType tells GORM to map the column as JSON.
func (StringList) GormDataType() string {
	return "json"
}

// Contains reports whether the list holds value, compared case-insensitively.
func (l StringList) Contains(value string) bool {
	for _, item := range l {
		if strings.EqualFold(item, value) {
			return true
		}
	}
	return false
}

// Post represents a blog post. Posts with a nil PublishedAt are drafts and
// are never eligible for search results.
type Post struct {
	gorm.Model
	Slug    string `json:"slug" gorm:"uniqueIndex;not null"`
	Title   string `json:"title" gorm:"not null"`
	Content string `json:"content" gorm:"type:text"`
	Excerpt string `json:"excerpt" gorm:"type:text"`

	// Presentation metadata managed by the admin dashboard
	TemplateType  string `json:"template_type"` // banner_text, video_text, image_text
	FeaturedImage string `json:"featured_image"`
	VideoURL      string `json:"video_url"`

	Section    string     `json:"section" gorm:"index;default:latest"`
	Tags       StringList `json:"tags" gorm:"type:json"`
	IsFeatured bool       `json:"is_featured" gorm:"default:false"`
	Priority   int        `json:"priority" gorm:"default:0"` // editorial ranking hint

	PublishedAt *time.Time `json:"published_at" gorm:"index"`

	ViewCount    int `json:"view_count" gorm:"default:0"`
	LikeCount    int `json:"like_count" gorm:"default:0"`
	CommentCount int `json:"comment_count" gorm:"default:0"`
	ShareCount   int `json:"share_count" gorm:"default:0"`
}

// IsPublished reports whether the post is eligible for search results.
func (p *Post) IsPublished() bool {
	return p.PublishedAt != nil
}

// DaysSincePublished returns fractional days since publication, or -1 for
// drafts.
func (p *Post) DaysSincePublished(now time.Time) float64 {
	if p.PublishedAt == nil {
		return -1
	}
	return now.Sub(*p.PublishedAt).Hours() / 24
}
