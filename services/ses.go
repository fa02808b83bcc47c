package services

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	sestypes "github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/rpupo63/consultancy-site-backend/config"
	"github.com/rs/zerolog/log"
)

type emailSender interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

type SESMailer struct {
	client emailSender
	from   string
}

// NewSESMailer uses the default AWS credential chain in SES_REGION.
func NewSESMailer(ctx context.Context, cfg map[string]string) (*SESMailer, error) {
	from := config.GetString(cfg, "SES_FROM_EMAIL", config.GetString(cfg, "SMTP_FROM", ""))
	if from == "" {
		return nil, fmt.Errorf("SES_FROM_EMAIL environment variable is required")
	}
	region := config.GetString(cfg, "SES_REGION", config.GetString(cfg, "AWS_REGION", "eu-central-1"))
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS default config: %w", err)
	}
	return &SESMailer{client: sesv2.NewFromConfig(awsCfg), from: from}, nil
}

func (m *SESMailer) Send(ctx context.Context, email Email) error {
	if err := validateEmail(email); err != nil {
		return err
	}

	body := &sestypes.Body{}
	if email.HTML != "" {
		body.Html = &sestypes.Content{Data: aws.String(email.HTML), Charset: aws.String("UTF-8")}
	}
	if email.Text != "" {
		body.Text = &sestypes.Content{Data: aws.String(email.Text), Charset: aws.String("UTF-8")}
	}

	out, err := m.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(m.from),
		Destination:      &sestypes.Destination{ToAddresses: email.To},
		Content: &sestypes.EmailContent{
			Simple: &sestypes.Message{
				Subject: &sestypes.Content{Data: aws.String(email.Subject), Charset: aws.String("UTF-8")},
				Body:    body,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to send email via SES: %w", err)
	}
	log.Info().Str("messageId", aws.ToString(out.MessageId)).Msg("Successfully sent email via SES")
	return nil
}
