package models

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

// DefaultUserName is the display name stamped on comments and chat messages
// whose author sent none.
const DefaultUserName = "User"

// Stamp normalizes now to UTC at microsecond precision, the finest resolution
// Postgres timestamptz keeps, so a freshly built row compares equal to its
// reloaded copy.
func Stamp(now time.Time) time.Time {
	return now.UTC().Truncate(time.Microsecond)
}

// UserFields are the caller-supplied attributes of a new user.
type UserFields struct {
	UserID   string
	Name     string
	Email    string
	Phone    string
	Location string
}

// NewUser builds an active user stamped at now. An empty email is stored as
// NULL so the unique email index ignores it.
func NewUser(f UserFields, now time.Time) *User {
	now = Stamp(now)
	return &User{
		UserID:    f.UserID,
		Name:      f.Name,
		Email:     OptionalString(f.Email),
		Phone:     f.Phone,
		Location:  f.Location,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// PostFields are the caller-supplied attributes of a new post.
type PostFields struct {
	ID       string
	AuthorID string
	Author   string
	Content  string
	Location string
	Tags     []string
	Image    *string
}

// NewPost builds a post with zeroed counters stamped at now.
func NewPost(f PostFields, now time.Time) *Post {
	now = Stamp(now)
	tags := f.Tags
	if tags == nil {
		tags = []string{}
	}
	return &Post{
		ID:        f.ID,
		AuthorID:  f.AuthorID,
		Author:    f.Author,
		Content:   f.Content,
		Location:  f.Location,
		Tags:      datatypes.JSONSlice[string](tags),
		Image:     f.Image,
		Timestamp: now,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// CommentFields are the caller-supplied attributes of a new comment.
type CommentFields struct {
	ID       string
	PostID   string
	UserID   string
	UserName string
	Content  string
}

func NewComment(f CommentFields, now time.Time) *Comment {
	now = Stamp(now)
	return &Comment{
		ID:        f.ID,
		PostID:    f.PostID,
		UserID:    f.UserID,
		UserName:  displayName(f.UserName),
		Content:   f.Content,
		Timestamp: now,
		CreatedAt: now,
	}
}

// ActivityFields are the caller-supplied attributes of a new activity.
type ActivityFields struct {
	ID     string
	UserID string
	Type   string
	Crop   string
	Notes  string
}

// NewActivity builds an activity dated now.
func NewActivity(f ActivityFields, now time.Time) *Activity {
	now = Stamp(now)
	return &Activity{
		ID:        f.ID,
		UserID:    f.UserID,
		Type:      f.Type,
		Crop:      f.Crop,
		Notes:     f.Notes,
		Date:      now,
		Timestamp: now,
		CreatedAt: now,
	}
}

// ChatMessageFields are the caller-supplied attributes of a new message.
type ChatMessageFields struct {
	ID       string
	ChatID   string
	UserID   string
	UserName string
	Content  string
}

func NewChatMessage(f ChatMessageFields, now time.Time) *ChatMessage {
	now = Stamp(now)
	return &ChatMessage{
		ID:        f.ID,
		ChatID:    f.ChatID,
		UserID:    f.UserID,
		UserName:  displayName(f.UserName),
		Content:   f.Content,
		Timestamp: now,
		CreatedAt: now,
	}
}

// CropHealthFields are the caller-supplied attributes of a new diagnosis.
type CropHealthFields struct {
	ID       string
	UserID   string
	ImageURL *string
	Results  []Prediction
	Location *string
}

func NewCropHealth(f CropHealthFields, now time.Time) *CropHealth {
	now = Stamp(now)
	results := f.Results
	if results == nil {
		results = []Prediction{}
	}
	return &CropHealth{
		ID:        f.ID,
		UserID:    f.UserID,
		ImageURL:  f.ImageURL,
		Results:   datatypes.JSONSlice[Prediction](results),
		Location:  f.Location,
		Timestamp: now,
		CreatedAt: now,
	}
}

func NewPostLike(postID, userID string, now time.Time) *PostLike {
	return &PostLike{PostID: postID, UserID: userID, CreatedAt: Stamp(now)}
}

func NewSavedPost(postID, userID string, now time.Time) *SavedPost {
	return &SavedPost{PostID: postID, UserID: userID, CreatedAt: Stamp(now)}
}

// OptionalString returns nil for blank input and a pointer to the trimmed
// value otherwise.
func OptionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func displayName(name string) string {
	if strings.TrimSpace(name) == "" {
		return DefaultUserName
	}
	return name
}
