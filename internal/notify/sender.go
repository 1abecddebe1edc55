// Package notify delivers agreement and reminder emails.
package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"gopkg.in/gomail.v2"

	"rental-backend/internal/config"
	"rental-backend/internal/logger"
)

// Message is one outgoing email
type Message struct {
	To      []string
	Subject string
	HTML    string
	Text    string
}

// Sender delivers a message through some provider
type Sender interface {
	Send(ctx context.Context, m Message) error
}

// NewSender picks the provider named in config. Without one, messages are
// only logged.
func NewSender(cfg *config.Config) (Sender, error) {
	switch strings.ToLower(cfg.Mail.Provider) {
	case "", "log":
		return &LogSender{log: logger.Component("mail")}, nil
	case "smtp":
		if cfg.Mail.SMTPUser == "" {
			return nil, fmt.Errorf("smtp mail provider needs EMAIL_USER")
		}
		return &SMTPSender{
			host:     cfg.Mail.SMTPHost,
			port:     cfg.Mail.SMTPPort,
			username: cfg.Mail.SMTPUser,
			password: cfg.Mail.SMTPPassword,
			from:     cfg.Mail.From,
		}, nil
	case "sendgrid":
		if cfg.Mail.SendGridAPIKey == "" {
			return nil, fmt.Errorf("sendgrid mail provider needs SENDGRID_API_KEY")
		}
		return &SendGridSender{apiKey: cfg.Mail.SendGridAPIKey, from: cfg.Mail.From}, nil
	}
	return nil, fmt.Errorf("unknown mail provider %q", cfg.Mail.Provider)
}

// SMTPSender sends through an SMTP relay
type SMTPSender struct {
	host     string
	port     int
	username string
	password string
	from     string
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To...)
	m.SetHeader("Subject", msg.Subject)
	if msg.Text != "" {
		m.SetBody("text/plain", msg.Text)
		m.AddAlternative("text/html", msg.HTML)
	} else {
		m.SetBody("text/html", msg.HTML)
	}

	d := gomail.NewDialer(s.host, s.port, s.username, s.password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email via smtp: %w", err)
	}
	return nil
}

// SendGridSender sends through the SendGrid v3 API
type SendGridSender struct {
	apiKey string
	from   string
}

func (s *SendGridSender) Send(ctx context.Context, msg Message) error {
	message := mail.NewV3Mail()
	message.SetFrom(mail.NewEmail("", s.from))
	message.Subject = msg.Subject

	p := mail.NewPersonalization()
	for _, to := range msg.To {
		p.AddTos(mail.NewEmail("", to))
	}
	message.AddPersonalizations(p)

	if msg.Text != "" {
		message.AddContent(mail.NewContent("text/plain", msg.Text))
	}
	message.AddContent(mail.NewContent("text/html", msg.HTML))

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}

// LogSender records messages instead of sending them
type LogSender struct {
	log zerolog.Logger
}

func (s *LogSender) Send(ctx context.Context, m Message) error {
	s.log.Info().
		Strs("to", m.To).
		Str("subject", m.Subject).
		Int("html_bytes", len(m.HTML)).
		Msg("email simulation")
	return nil
}
