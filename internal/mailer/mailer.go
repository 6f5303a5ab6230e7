package mailer

import (
	"devcommunity/internal/config"

	gomail "gopkg.in/gomail.v2"
)

// Mailer sends plain-text mail through the configured transport.
type Mailer interface {
	Send(to, subject, body string) error
}

// smtpMailer dispatches through an SMTP relay using gomail.
type smtpMailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPMailer creates a Mailer backed by the configured SMTP relay.
func NewSMTPMailer(cfg config.SMTPConfig) Mailer {
	from := cfg.From
	if from == "" {
		from = cfg.User
	}
	return &smtpMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   from,
	}
}

// Send dials the relay and delivers a single plain-text message.
func (m *smtpMailer) Send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	return m.dialer.DialAndSend(msg)
}
