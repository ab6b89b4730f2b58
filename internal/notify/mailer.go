package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// Mailer sends a payment notification email.
// Implementations must be safe for concurrent use.
type Mailer interface {
	Send(ctx context.Context, recipient string, amount float64) error
}

// SMTPMailer sends mail through a single SMTP relay using STARTTLS
// and PLAIN auth.
type SMTPMailer struct {
	addr     string
	host     string
	username string
	password string
	from     string
}

// SMTPConfig holds settings for the SMTP mailer.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// NewSMTPMailer creates a mailer for the given relay.
// From defaults to the username, matching the common single-account setup.
func NewSMTPMailer(cfg SMTPConfig) (*SMTPMailer, error) {
	if cfg.Host == "" || cfg.Username == "" {
		return nil, ErrMailerNotConfigured
	}

	from := cfg.From
	if from == "" {
		from = cfg.Username
	}

	return &SMTPMailer{
		addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		host:     cfg.Host,
		username: cfg.Username,
		password: cfg.Password,
		from:     from,
	}, nil
}

// Send delivers a "Payment Notification" message to the recipient.
// smtp.SendMail negotiates STARTTLS when the server offers it.
func (m *SMTPMailer) Send(ctx context.Context, recipient string, amount float64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := buildMessage(m.from, recipient, amount)
	auth := smtp.PlainAuth("", m.username, m.password, m.host)

	if err := smtp.SendMail(m.addr, auth, m.from, []string{recipient}, msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}

// buildMessage assembles a plain-text RFC 5322 message.
func buildMessage(from, to string, amount float64) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	b.WriteString("Subject: Payment Notification\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	fmt.Fprintf(&b, "Payment of $%.2f has been made using your form.\r\n", amount)
	return []byte(b.String())
}
