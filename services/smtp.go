package services

import (
	"context"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/rpupo63/consultancy-site-backend/config"
)

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type SMTPMailer struct {
	addr     string
	host     string
	username string
	password string
	from     string
	sendMail sendMailFunc
}

func NewSMTPMailer(cfg map[string]string) (*SMTPMailer, error) {
	host := config.GetString(cfg, "SMTP_HOST", "")
	if host == "" {
		return nil, fmt.Errorf("SMTP_HOST environment variable is required")
	}
	from := config.GetString(cfg, "SMTP_FROM", config.GetString(cfg, "SMTP_USER", ""))
	if from == "" {
		return nil, fmt.Errorf("SMTP_FROM environment variable is required")
	}
	return &SMTPMailer{
		addr:     net.JoinHostPort(host, config.GetString(cfg, "SMTP_PORT", "587")),
		host:     host,
		username: config.GetString(cfg, "SMTP_USER", ""),
		password: config.GetString(cfg, "SMTP_PASSWORD", ""),
		from:     from,
		sendMail: smtp.SendMail,
	}, nil
}

// Send delivers the message. net/smtp has no context support, so ctx is
// only checked before dialing.
func (m *SMTPMailer) Send(ctx context.Context, email Email) error {
	if err := validateEmail(email); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}
	if err := m.sendMail(m.addr, auth, m.from, email.To, buildMessage(m.from, email, time.Now())); err != nil {
		return fmt.Errorf("failed to send email via SMTP: %w", err)
	}
	return nil
}

// buildMessage renders a minimal RFC 5322 message. HTML wins over Text when
// both are set.
func buildMessage(from string, email Email, now time.Time) []byte {
	contentType, body := "text/plain; charset=UTF-8", email.Text
	if email.HTML != "" {
		contentType, body = "text/html; charset=UTF-8", email.HTML
	}

	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + strings.Join(email.To, ", ") + "\r\n")
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", email.Subject) + "\r\n")
	b.WriteString("Date: " + now.Format(time.RFC1123Z) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: " + contentType + "\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	return []byte(b.String())
}
