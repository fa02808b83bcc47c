package services

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/rpupo63/consultancy-site-backend/models"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

type textSender interface {
	Send(ctx context.Context, body string) error
}

// ContactNotifier tells staff about new contact form submissions by email
// and, when configured, by SMS. Either channel may be absent.
type ContactNotifier struct {
	mailer     Mailer
	sms        textSender
	recipients []string
}

func NewContactNotifier(mailer Mailer, sms *SMSNotifier, recipients []string) *ContactNotifier {
	n := &ContactNotifier{mailer: mailer, recipients: recipients}
	if sms != nil {
		n.sms = sms
	}
	return n
}

// NotifyContact sends both notifications concurrently. Each failure is
// logged; the first one is returned.
func (n *ContactNotifier) NotifyContact(ctx context.Context, msg models.ContactMessage) error {
	if n == nil {
		return nil
	}
	g, ctx := errgroup.WithContext(ctx)

	if n.mailer != nil && len(n.recipients) > 0 {
		g.Go(func() error {
			err := n.mailer.Send(ctx, contactEmail(msg, n.recipients))
			if err != nil {
				log.Error().Err(err).Int64("contactMessageId", msg.ID).Msg("Failed to email contact notification")
			}
			return err
		})
	}
	if n.sms != nil {
		g.Go(func() error {
			err := n.sms.Send(ctx, contactSMS(msg))
			if err != nil {
				log.Error().Err(err).Int64("contactMessageId", msg.ID).Msg("Failed to text contact notification")
			}
			return err
		})
	}
	return g.Wait()
}

func contactEmail(msg models.ContactMessage, to []string) Email {
	subject := "New contact message from " + msg.Name
	if msg.Subject != "" {
		subject += ": " + msg.Subject
	}

	var b strings.Builder
	b.WriteString("<h2>New contact message</h2><table>")
	for _, row := range [][2]string{
		{"Name", msg.Name},
		{"Email", msg.Email},
		{"Company", msg.Company},
		{"Phone", msg.Phone},
		{"Subject", msg.Subject},
	} {
		if row[1] == "" {
			continue
		}
		fmt.Fprintf(&b, "<tr><td><strong>%s</strong></td><td>%s</td></tr>", row[0], html.EscapeString(row[1]))
	}
	b.WriteString("</table><p>")
	b.WriteString(strings.ReplaceAll(html.EscapeString(msg.Message), "\n", "<br>"))
	b.WriteString("</p>")

	return Email{
		To:      to,
		Subject: subject,
		HTML:    b.String(),
		Text:    fmt.Sprintf("From: %s <%s>\n\n%s", msg.Name, msg.Email, msg.Message),
	}
}

func contactSMS(msg models.ContactMessage) string {
	body := fmt.Sprintf("New contact message from %s (%s)", msg.Name, msg.Email)
	if msg.Subject != "" {
		body += ": " + msg.Subject
	}
	const maxSMS = 160
	if len(body) > maxSMS {
		body = body[:maxSMS-3] + "..."
	}
	return body
}
