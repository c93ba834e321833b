package ws

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(m *Manager, userID string) *Client {
	return &Client{
		UserID:  userID,
		Manager: m,
		Send:    make(chan any, 4),
	}
}

func registerAndWait(t *testing.T, m *Manager, c *Client) {
	t.Helper()
	m.register <- c
	require.Eventually(t, func() bool {
		return m.IsConnected(c.UserID)
	}, time.Second, 5*time.Millisecond)
}

func TestManager_RegisterAndPush(t *testing.T) {
	t.Parallel()
	m := NewManager()
	go m.Run()

	client := newTestClient(m, "user-1")
	registerAndWait(t, m, client)

	assert.Equal(t, 1, m.ClientCount())

	m.PushToUser("user-1", map[string]any{"type": "notification"})

	select {
	case msg := <-client.Send:
		payload, ok := msg.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "notification", payload["type"])
	case <-time.After(time.Second):
		t.Fatal("no message delivered")
	}
}

func TestManager_PushToUnknownUserIsNoop(t *testing.T) {
	t.Parallel()
	m := NewManager()
	go m.Run()

	// Must not block or panic with nobody connected.
	m.PushToUser("nobody", "hello")
	assert.False(t, m.IsConnected("nobody"))
}

func TestManager_MultipleConnectionsPerUser(t *testing.T) {
	t.Parallel()
	m := NewManager()
	go m.Run()

	first := newTestClient(m, "user-1")
	second := newTestClient(m, "user-1")
	registerAndWait(t, m, first)
	m.register <- second
	require.Eventually(t, func() bool { return m.ClientCount() == 2 }, time.Second, 5*time.Millisecond)

	m.PushToUser("user-1", "ping")

	for _, c := range []*Client{first, second} {
		select {
		case msg := <-c.Send:
			assert.Equal(t, "ping", msg)
		case <-time.After(time.Second):
			t.Fatal("connection missed the push")
		}
	}
}

func TestManager_Unregister(t *testing.T) {
	t.Parallel()
	m := NewManager()
	go m.Run()

	client := newTestClient(m, "user-1")
	registerAndWait(t, m, client)

	m.unregister <- client
	require.Eventually(t, func() bool {
		return !m.IsConnected("user-1")
	}, time.Second, 5*time.Millisecond)

	// The send channel is closed on unregister.
	_, open := <-client.Send
	assert.False(t, open)
	assert.Equal(t, 0, m.ClientCount())
}

func TestManager_SlowConnectionIsDropped(t *testing.T) {
	t.Parallel()
	m := NewManager()
	go m.Run()

	slow := &Client{UserID: "user-1", Manager: m, Send: make(chan any)} // no buffer, never read
	registerAndWait(t, m, slow)

	m.PushToUser("user-1", "first")

	require.Eventually(t, func() bool {
		return !m.IsConnected("user-1")
	}, time.Second, 5*time.Millisecond)
}
