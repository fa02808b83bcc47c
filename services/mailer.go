package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rpupo63/consultancy-site-backend/config"
	"github.com/rs/zerolog/log"
)

// Email is a single outbound message. HTML is preferred; Text is sent as
// the plain alternative when the transport supports it.
type Email struct {
	To      []string
	Subject string
	HTML    string
	Text    string
}

type Mailer interface {
	Send(ctx context.Context, email Email) error
}

// NewMailer picks the transport named by MAIL_TRANSPORT (smtp, resend or ses).
// Left empty, Resend is used when RESEND_API_KEY is set, then SMTP when
// SMTP_HOST is set. Returns nil, nil when nothing is configured.
func NewMailer(ctx context.Context, cfg map[string]string) (Mailer, error) {
	transport := strings.ToLower(config.GetString(cfg, "MAIL_TRANSPORT", ""))
	if transport == "" {
		switch {
		case config.GetString(cfg, "RESEND_API_KEY", "") != "":
			transport = "resend"
		case config.GetString(cfg, "SMTP_HOST", "") != "":
			transport = "smtp"
		default:
			log.Warn().Msg("No mail transport configured, contact notifications will not be emailed")
			return nil, nil
		}
	}

	var (
		mailer Mailer
		err    error
	)
	switch transport {
	case "resend":
		mailer, err = NewResendMailer(cfg)
	case "smtp":
		mailer, err = NewSMTPMailer(cfg)
	case "ses":
		mailer, err = NewSESMailer(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown MAIL_TRANSPORT %q", transport)
	}
	if err != nil {
		return nil, err
	}
	log.Info().Str("transport", transport).Msg("Mail transport configured")
	return mailer, nil
}

func validateEmail(email Email) error {
	if len(email.To) == 0 {
		return fmt.Errorf("at least one recipient is required")
	}
	if email.HTML == "" && email.Text == "" {
		return fmt.Errorf("email body is empty")
	}
	return nil
}
