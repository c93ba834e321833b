package app

import "permiso_backend/internal/logger"

// MockEmailProvider is wired when SMTP is not configured. It logs instead
// of sending.
type MockEmailProvider struct{}

func (m *MockEmailProvider) Send(to, subject, _ string) error {
	logger.Debug("mock email send", "to", to, "subject", subject)
	return nil
}
