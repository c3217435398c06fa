package service

import (
	"context"
	"fmt"
	"log/slog"

	"farmsphere/internal/middleware"
	"farmsphere/internal/models"
	"farmsphere/internal/repository"
	"farmsphere/internal/validation"
)

// ChatPublisher fans a stored chat message out to realtime subscribers.
type ChatPublisher interface {
	PublishChatMessage(ctx context.Context, msg *models.ChatMessage) error
}

type ChatService struct {
	chatRepo  repository.ChatRepository
	publisher ChatPublisher
	now       Clock
}

type SendMessageInput struct {
	ID       string
	ChatID   string
	UserID   string
	UserName string
	Content  string
}

// NewChatService builds the chat service. publisher may be nil, in which case
// messages are only stored.
func NewChatService(chatRepo repository.ChatRepository, publisher ChatPublisher, now Clock) *ChatService {
	return &ChatService{chatRepo: chatRepo, publisher: publisher, now: clockOrDefault(now)}
}

// SendMessage stores the message, then publishes it. Publish failures are
// logged; the stored message is still returned.
func (s *ChatService) SendMessage(ctx context.Context, in SendMessageInput) (*models.ChatMessage, error) {
	if err := firstError(
		validation.ValidateID("id", in.ID),
		validation.ValidateLength("userName", in.UserName, validation.MaxNameLength),
		validation.ValidateLength("content", in.Content, validation.MaxContentLength),
	); err != nil {
		return nil, err
	}

	msg := models.NewChatMessage(models.ChatMessageFields{
		ID:       newID(in.ID),
		ChatID:   in.ChatID,
		UserID:   in.UserID,
		UserName: in.UserName,
		Content:  in.Content,
	}, s.now())

	if err := s.chatRepo.CreateMessage(ctx, msg); err != nil {
		return nil, fmt.Errorf("create chat message: %w", err)
	}

	if s.publisher != nil {
		if err := s.publisher.PublishChatMessage(ctx, msg); err != nil {
			middleware.Logger.WarnContext(ctx, "Failed to publish chat message",
				slog.String("chat_id", msg.ChatID),
				slog.String("error", err.Error()),
			)
		}
	}
	return msg, nil
}

func (s *ChatService) ListMessages(ctx context.Context, chatID string, p Pagination) ([]*models.ChatMessage, error) {
	return s.chatRepo.ListMessages(ctx, chatID, p.Window())
}
