package server

import (
	"log/slog"

	"farmsphere/internal/middleware"
	"farmsphere/internal/serialize"
	"farmsphere/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

type sendMessageRequest struct {
	ID       string `json:"id"`
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
	Content  string `json:"content"`
}

// GetMessages handles GET /api/chats/:id/messages
func (s *Server) GetMessages(c *fiber.Ctx) error {
	page := s.parsePagination(c, service.DefaultChatLimit)

	messages, err := s.chatService.ListMessages(c.UserContext(), c.Params("id"), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"messages": serialize.Records(messages)})
}

// SendMessage godoc
// @Summary Post a chat message
// @Description Stores the message and pushes it to live subscribers of the chat.
// @Tags chats
// @Accept json
// @Produce json
// @Param id path string true "Chat ID"
// @Param message body sendMessageRequest true "Message"
// @Success 201 {object} map[string]any
// @Failure 400 {object} models.ErrorResponse
// @Router /api/chats/{id}/messages [post]
func (s *Server) SendMessage(c *fiber.Ctx) error {
	var req sendMessageRequest
	if err := parseBody(c, &req); err != nil {
		return invalidBody(c)
	}

	msg, err := s.chatService.SendMessage(c.UserContext(), service.SendMessageInput{
		ID:       req.ID,
		ChatID:   c.Params("id"),
		UserID:   req.UserID,
		UserName: req.UserName,
		Content:  req.Content,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(serialize.Record(msg))
}

// ChatStreamHandler streams new messages of one chat over a WebSocket.
func (s *Server) ChatStreamHandler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		chatID := conn.Params("id")

		client, err := s.chatHub.Register(chatID, conn)
		if err != nil {
			middleware.Logger.Warn("Chat stream rejected", slog.String("chat_id", chatID), slog.String("error", err.Error()))
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"`+err.Error()+`"}`))
			_ = conn.Close()
			return
		}

		middleware.Logger.Debug("Chat stream opened", slog.String("chat_id", chatID))
		go client.WritePump()
		client.ReadPump()
	})
}
