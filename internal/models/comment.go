package models

import "time"

// Comment is a reply on a post.
type Comment struct {
	Base
	ID        string    `gorm:"column:id;not null" json:"id"`
	PostID    string    `gorm:"column:post_id;not null" json:"postId"`
	UserID    string    `gorm:"column:user_id;not null;default:''" json:"userId"`
	UserName  string    `gorm:"not null;default:'User'" json:"userName"`
	Content   string    `gorm:"type:text;not null;default:''" json:"content"`
	Timestamp time.Time `gorm:"not null" json:"timestamp"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName overrides the default table name.
func (Comment) TableName() string { return "comments" }

func (c *Comment) Document() map[string]any {
	return map[string]any{
		"_id":       c.RowID,
		"id":        c.ID,
		"postId":    c.PostID,
		"userId":    c.UserID,
		"userName":  c.UserName,
		"content":   c.Content,
		"timestamp": c.Timestamp,
		"createdAt": c.CreatedAt,
	}
}
