package models

import (
	"time"

	"gorm.io/datatypes"
)

// Post is a community feed entry. Likes and Comments mirror the number of
// post_likes and comments rows that reference it.
type Post struct {
	Base
	ID        string                      `gorm:"column:id;not null" json:"id"`
	AuthorID  string                      `gorm:"column:author_id;not null;default:''" json:"authorId"`
	Author    string                      `gorm:"not null;default:''" json:"author"`
	Content   string                      `gorm:"type:text;not null;default:''" json:"content"`
	Location  string                      `gorm:"not null;default:''" json:"location"`
	Tags      datatypes.JSONSlice[string] `json:"tags"`
	Image     *string                     `json:"image"`
	Likes     int                         `gorm:"not null;default:0" json:"likes"`
	Comments  int                         `gorm:"not null;default:0" json:"comments"`
	Timestamp time.Time                   `gorm:"not null" json:"timestamp"`
	CreatedAt time.Time                   `json:"createdAt"`
	UpdatedAt time.Time                   `json:"updatedAt"`
}

// TableName overrides the default table name.
func (Post) TableName() string { return "posts" }

// Document projects the post onto its wire document.
func (p *Post) Document() map[string]any {
	tags := []string(p.Tags)
	if tags == nil {
		tags = []string{}
	}
	return map[string]any{
		"_id":       p.RowID,
		"id":        p.ID,
		"authorId":  p.AuthorID,
		"author":    p.Author,
		"content":   p.Content,
		"location":  p.Location,
		"tags":      tags,
		"image":     p.Image,
		"likes":     p.Likes,
		"comments":  p.Comments,
		"timestamp": p.Timestamp,
		"createdAt": p.CreatedAt,
		"updatedAt": p.UpdatedAt,
	}
}
