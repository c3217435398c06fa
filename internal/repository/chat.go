package repository

import (
	"context"

	"farmsphere/internal/models"

	"gorm.io/gorm"
)

// ChatRepository persists chat messages grouped by chat id.
type ChatRepository interface {
	CreateMessage(ctx context.Context, msg *models.ChatMessage) error
	ListMessages(ctx context.Context, chatID string, page Page) ([]*models.ChatMessage, error)
}

type chatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

func (r *chatRepository) CreateMessage(ctx context.Context, msg *models.ChatMessage) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

// ListMessages returns one page of chatID's messages, oldest first.
func (r *chatRepository) ListMessages(ctx context.Context, chatID string, page Page) ([]*models.ChatMessage, error) {
	messages := []*models.ChatMessage{}
	err := page.apply(r.db.WithContext(ctx)).
		Where("chat_id = ?", chatID).
		Order(oldestFirst("timestamp")).
		Find(&messages).Error
	return messages, err
}
