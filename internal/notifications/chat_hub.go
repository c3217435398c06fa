package notifications

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"farmsphere/internal/middleware"
	"farmsphere/internal/observability"

	"github.com/gofiber/websocket/v2"
)

const (
	maxConnsPerChat = 256
	maxTotalConns   = 10000
)

var (
	ErrChatFull   = errors.New("chat connection limit reached")
	ErrServerFull = errors.New("server connection limit reached")
)

// ChatHub maps chatID to the clients streaming that chat.
type ChatHub struct {
	mu    sync.RWMutex
	chats map[string]map[*Client]struct{}
	total int
}

// NewChatHub creates an empty hub.
func NewChatHub() *ChatHub {
	return &ChatHub{chats: make(map[string]map[*Client]struct{})}
}

// Name returns a human-readable identifier for this hub.
func (h *ChatHub) Name() string { return "chat hub" }

// Register subscribes conn to chatID.
func (h *ChatHub) Register(chatID string, conn *websocket.Conn) (*Client, error) {
	client := NewClient(h, conn, chatID)
	if err := h.Subscribe(client); err != nil {
		return nil, err
	}
	return client, nil
}

// Subscribe adds an already built client to its chat.
func (h *ChatHub) Subscribe(client *Client) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.total >= maxTotalConns {
		return ErrServerFull
	}
	clients, ok := h.chats[client.ChatID]
	if !ok {
		clients = make(map[*Client]struct{})
		h.chats[client.ChatID] = clients
	}
	if len(clients) >= maxConnsPerChat {
		return ErrChatFull
	}
	if client.Hub == nil {
		client.Hub = h
	}

	clients[client] = struct{}{}
	h.total++
	observability.ChatStreamConnections.Inc()
	return nil
}

// UnregisterClient removes client and closes its send buffer. Calling it
// twice is harmless.
func (h *ChatHub) UnregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.chats[client.ChatID]
	if !ok {
		return
	}
	if _, exists := clients[client]; !exists {
		return
	}
	delete(clients, client)
	if len(clients) == 0 {
		delete(h.chats, client.ChatID)
	}
	h.total--
	observability.ChatStreamConnections.Dec()
	close(client.Send)
}

// Subscribers returns the number of clients streaming chatID.
func (h *ChatHub) Subscribers(chatID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.chats[chatID])
}

// Broadcast sends payload to every client of chatID and returns how many
// accepted it.
func (h *ChatHub) Broadcast(chatID string, payload []byte) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for c := range h.chats[chatID] {
		if c.TrySend(payload) {
			delivered++
		}
	}
	return delivered
}

// StartWiring feeds messages published through n into this hub. With Redis
// the hub listens on the chat:* pattern; without it n delivers in process.
func (h *ChatHub) StartWiring(ctx context.Context, n *Notifier) error {
	if n.rdb == nil {
		n.setLocal(func(chatID string, payload []byte) { h.Broadcast(chatID, payload) })
		return nil
	}
	return n.StartChatSubscriber(ctx, func(chatID string, payload []byte) {
		h.Broadcast(chatID, payload)
	})
}

// Shutdown closes every send buffer, which makes each write pump send a
// close frame and drop its connection.
func (h *ChatHub) Shutdown(_ context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	for chatID, clients := range h.chats {
		for client := range clients {
			close(client.Send)
		}
		observability.ChatStreamConnections.Sub(float64(len(clients)))
		middleware.Logger.Debug("closed chat stream subscribers", slog.String("chat_id", chatID), slog.Int("count", len(clients)))
	}

	h.chats = make(map[string]map[*Client]struct{})
	h.total = 0
	return nil
}
