package notify

import (
	"fmt"

	"fazservico_backend/internal/config"

	"gopkg.in/gomail.v2"
)

// Mailer sends a plain-text email. Nil-able; the dispatcher treats a nil
// mailer as "email disabled".
type Mailer interface {
	Send(to, subject, body string) error
}

type smtpMailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPMailer builds the gomail-backed mailer, or nil when email is
// disabled in config.
func NewSMTPMailer(cfg *config.Config) Mailer {
	if !cfg.Email.Enabled {
		return nil
	}

	dialer := gomail.NewDialer(
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.SMTPUsername,
		cfg.Email.SMTPPassword,
	)
	from := fmt.Sprintf("%s <%s>", cfg.Email.FromName, cfg.Email.FromEmail)

	return &smtpMailer{dialer: dialer, from: from}
}

func (m *smtpMailer) Send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	return m.dialer.DialAndSend(msg)
}
