package notifications

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"farmsphere/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(chatID string, buffer int) *Client {
	return &Client{ChatID: chatID, Send: make(chan []byte, buffer)}
}

func testMessage(chatID string) *models.ChatMessage {
	return models.NewChatMessage(models.ChatMessageFields{
		ID:       "m1",
		ChatID:   chatID,
		UserID:   "u1",
		UserName: "Asha",
		Content:  "Rain tomorrow",
	}, time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC))
}

func receive(t *testing.T, c *Client) ChatEvent {
	t.Helper()
	select {
	case frame := <-c.Send:
		var ev ChatEvent
		require.NoError(t, json.Unmarshal(frame, &ev))
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("no frame delivered")
		return ChatEvent{}
	}
}

func TestChatHub_SubscribeAndBroadcast(t *testing.T) {
	hub := NewChatHub()
	a := newTestClient("chat-1", 4)
	b := newTestClient("chat-1", 4)
	other := newTestClient("chat-2", 4)
	require.NoError(t, hub.Subscribe(a))
	require.NoError(t, hub.Subscribe(b))
	require.NoError(t, hub.Subscribe(other))

	assert.Equal(t, 2, hub.Subscribers("chat-1"))
	assert.Equal(t, 2, hub.Broadcast("chat-1", []byte(`{"type":"message"}`)))

	assert.Len(t, a.Send, 1)
	assert.Len(t, b.Send, 1)
	assert.Empty(t, other.Send)

	_ = hub.Shutdown(context.Background())
}

func TestChatHub_UnregisterIsIdempotent(t *testing.T) {
	hub := NewChatHub()
	c := newTestClient("chat-1", 1)
	require.NoError(t, hub.Subscribe(c))

	hub.UnregisterClient(c)
	hub.UnregisterClient(c)

	assert.Equal(t, 0, hub.Subscribers("chat-1"))
	_, open := <-c.Send
	assert.False(t, open)
	assert.Equal(t, 0, hub.Broadcast("chat-1", []byte("x")))
}

func TestChatHub_FullBufferDrops(t *testing.T) {
	hub := NewChatHub()
	c := newTestClient("chat-1", 1)
	require.NoError(t, hub.Subscribe(c))

	assert.Equal(t, 1, hub.Broadcast("chat-1", []byte("first")))
	assert.Equal(t, 0, hub.Broadcast("chat-1", []byte("second")))
	assert.Equal(t, "first", string(<-c.Send))
}

func TestChatHub_ChatLimit(t *testing.T) {
	hub := NewChatHub()
	for i := 0; i < maxConnsPerChat; i++ {
		require.NoError(t, hub.Subscribe(newTestClient("busy", 1)))
	}
	assert.ErrorIs(t, hub.Subscribe(newTestClient("busy", 1)), ErrChatFull)
	assert.NoError(t, hub.Subscribe(newTestClient("quiet", 1)))
	_ = hub.Shutdown(context.Background())
	assert.Equal(t, 0, hub.Subscribers("busy"))
}

func TestNotifier_LocalDeliveryWithoutRedis(t *testing.T) {
	hub := NewChatHub()
	n := NewNotifier(nil)
	require.NoError(t, hub.StartWiring(context.Background(), n))

	c := newTestClient("chat-1", 2)
	require.NoError(t, hub.Subscribe(c))

	require.NoError(t, n.PublishChatMessage(context.Background(), testMessage("chat-1")))
	ev := receive(t, c)
	assert.Equal(t, "message", ev.Type)
	assert.Equal(t, "chat-1", ev.ChatID)
	assert.Equal(t, "Rain tomorrow", ev.Payload["content"])
	assert.Equal(t, "2024-06-01T08:00:00Z", ev.Payload["timestamp"])
}

func TestNotifier_UnwiredWithoutRedisIsNoop(t *testing.T) {
	assert.NoError(t, NewNotifier(nil).PublishChatMessage(context.Background(), testMessage("c")))
}

func TestNotifier_RedisFanOut(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewChatHub()
	n := NewNotifier(rdb)
	require.NoError(t, hub.StartWiring(ctx, n))

	c := newTestClient("field-7", 2)
	require.NoError(t, hub.Subscribe(c))
	outsider := newTestClient("field-8", 2)
	require.NoError(t, hub.Subscribe(outsider))

	require.NoError(t, n.PublishChatMessage(ctx, testMessage("field-7")))

	ev := receive(t, c)
	assert.Equal(t, "field-7", ev.ChatID)
	assert.Equal(t, "Asha", ev.Payload["userName"])
	assert.Never(t, func() bool { return len(outsider.Send) > 0 }, 100*time.Millisecond, 10*time.Millisecond)
}

func TestChatChannel(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "chat:abc", ChatChannel("abc"))
}
