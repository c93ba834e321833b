package email

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// SMTPConfig holds the SMTP server configuration.
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
}

// SMTPProvider implements Provider over SMTP via gomail.
type SMTPProvider struct {
	config SMTPConfig
}

func NewSMTPProvider(cfg SMTPConfig) *SMTPProvider {
	return &SMTPProvider{config: cfg}
}

func (p *SMTPProvider) Send(to, subject, body string) error {
	m := gomail.NewMessage()
	if p.config.FromName != "" {
		m.SetHeader("From", m.FormatAddress(p.config.FromEmail, p.config.FromName))
	} else {
		m.SetHeader("From", p.config.FromEmail)
	}
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(
		p.config.Host,
		p.config.Port,
		p.config.Username,
		p.config.Password,
	)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}
