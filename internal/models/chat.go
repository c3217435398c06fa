package models

import "time"

// ChatMessage is one message in a chat. Chats have no table of their own;
// messages are grouped by ChatID.
type ChatMessage struct {
	Base
	ID        string    `gorm:"column:id;not null" json:"id"`
	ChatID    string    `gorm:"column:chat_id;not null" json:"chatId"`
	UserID    string    `gorm:"column:user_id;not null;default:''" json:"userId"`
	UserName  string    `gorm:"not null;default:'User'" json:"userName"`
	Content   string    `gorm:"type:text;not null;default:''" json:"content"`
	Timestamp time.Time `gorm:"not null" json:"timestamp"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName overrides the default table name.
func (ChatMessage) TableName() string { return "chat_messages" }

func (m *ChatMessage) Document() map[string]any {
	return map[string]any{
		"_id":       m.RowID,
		"id":        m.ID,
		"chatId":    m.ChatID,
		"userId":    m.UserID,
		"userName":  m.UserName,
		"content":   m.Content,
		"timestamp": m.Timestamp,
		"createdAt": m.CreatedAt,
	}
}
