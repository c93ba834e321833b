package ws

import (
	"sync"

	"permiso_backend/internal/logger"
)

// Manager tracks live websocket connections keyed by user ID. A user may
// hold several connections (multiple tabs); a push goes to all of them.
type Manager struct {
	clients    map[string]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		clients:    make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

func (m *Manager) Run() {
	for {
		select {
		case client := <-m.register:
			m.mu.Lock()
			if m.clients[client.UserID] == nil {
				m.clients[client.UserID] = make(map[*Client]struct{})
			}
			m.clients[client.UserID][client] = struct{}{}
			m.mu.Unlock()
			logger.Debug("websocket client registered", "user_id", client.UserID)

		case client := <-m.unregister:
			m.mu.Lock()
			if conns, ok := m.clients[client.UserID]; ok {
				if _, ok := conns[client]; ok {
					close(client.Send)
					delete(conns, client)
					if len(conns) == 0 {
						delete(m.clients, client.UserID)
					}
				}
			}
			m.mu.Unlock()
			logger.Debug("websocket client unregistered", "user_id", client.UserID)
		}
	}
}

// PushToUser delivers a message to every live connection of the user.
// It is a no-op when the user has no open connection; persistence is the
// notification service's job, not the hub's.
func (m *Manager) PushToUser(userID string, message any) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for client := range m.clients[userID] {
		select {
		case client.Send <- message:
		default:
			// Send buffer full, drop the slow connection.
			go func(c *Client) { m.unregister <- c }(client)
		}
	}
}

func (m *Manager) ClientCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, conns := range m.clients {
		n += len(conns)
	}
	return n
}

func (m *Manager) IsConnected(userID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients[userID]) > 0
}
