// Package notifications delivers stored chat messages to live WebSocket
// subscribers through Redis pub/sub.
package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"
	"sync"

	"farmsphere/internal/middleware"
	"farmsphere/internal/models"
	"farmsphere/internal/observability"
	"farmsphere/internal/serialize"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"
)

const chatChannelPrefix = "chat:"

// ChatChannel derives the Redis channel name for a chat.
func ChatChannel(chatID string) string {
	return chatChannelPrefix + chatID
}

// ChatEvent is the frame written to chat stream subscribers.
type ChatEvent struct {
	Type    string         `json:"type"`
	ChatID  string         `json:"chatId"`
	Payload map[string]any `json:"payload"`
}

// Notifier publishes chat messages into Redis channels. Without Redis it
// hands payloads straight to the locally wired hub.
type Notifier struct {
	rdb *redis.Client

	mu    sync.RWMutex
	local func(chatID string, payload []byte)
}

// NewNotifier creates a Notifier. rdb may be nil.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

func (n *Notifier) setLocal(fn func(chatID string, payload []byte)) {
	n.mu.Lock()
	n.local = fn
	n.mu.Unlock()
}

// PublishChatMessage sends msg to every subscriber of its chat.
func (n *Notifier) PublishChatMessage(ctx context.Context, msg *models.ChatMessage) (err error) {
	payload, err := json.Marshal(ChatEvent{
		Type:    "message",
		ChatID:  msg.ChatID,
		Payload: serialize.Record(msg),
	})
	if err != nil {
		return fmt.Errorf("marshal chat event: %w", err)
	}

	if n.rdb == nil {
		n.mu.RLock()
		local := n.local
		n.mu.RUnlock()
		if local != nil {
			local(msg.ChatID, payload)
		}
		return nil
	}

	ctx, span := observability.StartClientSpan(ctx, "redis.publish",
		attribute.String("messaging.destination", ChatChannel(msg.ChatID)))
	defer func() { observability.EndSpan(span, err) }()

	return n.rdb.Publish(ctx, ChatChannel(msg.ChatID), payload).Err()
}

// StartChatSubscriber subscribes to chat:* and calls onMessage for every
// payload until ctx is cancelled.
func (n *Notifier) StartChatSubscriber(ctx context.Context, onMessage func(chatID string, payload []byte)) error {
	if n.rdb == nil {
		return nil
	}
	sub := n.rdb.PSubscribe(ctx, chatChannelPrefix+"*")
	// Wait for the subscription confirmation so early publishes are not lost.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("subscribe chat channels: %w", err)
	}
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				func() {
					defer func() {
						if r := recover(); r != nil {
							middleware.Logger.Error("panic in chat subscriber",
								slog.Any("panic", r),
								slog.String("stack", string(debug.Stack())),
							)
						}
					}()
					onMessage(strings.TrimPrefix(msg.Channel, chatChannelPrefix), []byte(msg.Payload))
				}()
			}
		}
	}()

	return nil
}
