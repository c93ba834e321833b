package services

// Notifier is the real-time push port. The websocket hub implements it;
// services never import the hub directly so tests can plug a fake.
type Notifier interface {
	PushToUser(userID string, message any)
}

// NoopNotifier is used when no real-time transport is wired.
type NoopNotifier struct{}

func (NoopNotifier) PushToUser(string, any) {}
