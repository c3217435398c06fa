package models

import "time"

// PostLike records that a user liked a post. At most one row exists per
// (PostID, UserID).
type PostLike struct {
	Base
	PostID    string    `gorm:"column:post_id;not null" json:"postId"`
	UserID    string    `gorm:"column:user_id;not null" json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName overrides the default table name.
func (PostLike) TableName() string { return "post_likes" }

func (l *PostLike) Document() map[string]any {
	return map[string]any{
		"_id":       l.RowID,
		"postId":    l.PostID,
		"userId":    l.UserID,
		"createdAt": l.CreatedAt,
	}
}

// SavedPost records that a user bookmarked a post. At most one row exists
// per (PostID, UserID).
type SavedPost struct {
	Base
	PostID    string    `gorm:"column:post_id;not null" json:"postId"`
	UserID    string    `gorm:"column:user_id;not null" json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName overrides the default table name.
func (SavedPost) TableName() string { return "saved_posts" }

func (s *SavedPost) Document() map[string]any {
	return map[string]any{
		"_id":       s.RowID,
		"postId":    s.PostID,
		"userId":    s.UserID,
		"createdAt": s.CreatedAt,
	}
}
