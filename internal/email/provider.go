package email

// Provider defines the outbound email port. The app wires either the SMTP
// implementation or a mock, so services never depend on a live mail server.
type Provider interface {
	// Send delivers a simple HTML email.
	Send(to, subject, body string) error
}
