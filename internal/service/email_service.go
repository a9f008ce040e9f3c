package service

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"go.uber.org/zap"

	"sentencescramble/internal/validation"
)

// sesClient is the part of the SES API the email service uses
type sesClient interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// EmailService handles sending emails via Amazon SES
type EmailService struct {
	client    sesClient
	fromEmail string
	fromName  string
	enabled   bool
	debug     bool
}

// NewEmailService creates a new email service
func NewEmailService(ctx context.Context, awsRegion, fromEmail, fromName string, debug bool) (*EmailService, error) {
	// If fromEmail is empty, create a disabled service
	if fromEmail == "" {
		zap.L().Info("email service disabled: SES_FROM_EMAIL not configured")
		return &EmailService{enabled: false, debug: debug}, nil
	}

	if debug {
		zap.L().Debug("initializing email service with AWS SES",
			zap.String("region", awsRegion),
			zap.String("from_email", fromEmail),
			zap.String("from_name", fromName))
	}

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(awsRegion))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	zap.L().Info("email service enabled",
		zap.String("from", fromEmail),
		zap.String("region", awsRegion))

	return newEmailService(sesv2.NewFromConfig(cfg), fromEmail, fromName, debug), nil
}

func newEmailService(client sesClient, fromEmail, fromName string, debug bool) *EmailService {
	return &EmailService{
		client:    client,
		fromEmail: fromEmail,
		fromName:  fromName,
		enabled:   true,
		debug:     debug,
	}
}

// IsEnabled returns whether the email service is enabled
func (s *EmailService) IsEnabled() bool {
	return s.enabled
}

// SendResults emails a student's results report, with its receipt when one
// was issued, to the teacher
func (s *EmailService) SendResults(ctx context.Context, toEmail, title, student, shareText, receipt string) error {
	if err := validation.ValidateEmail(toEmail); err != nil {
		return err
	}
	if !s.enabled {
		zap.L().Info("skipping email send (service disabled)",
			zap.String("kind", "results"), zap.String("to", toEmail))
		return nil
	}

	if student == "" {
		student = "A student"
	}
	subject := fmt.Sprintf("Sentence Scramble results: %s (%s)", title, student)

	receiptHTML, receiptText := "", ""
	if receipt != "" {
		receiptHTML = fmt.Sprintf(`
			<p>Receipt (paste into the verifier to confirm these results):</p>
			<p class="receipt">%s</p>`, html.EscapeString(receipt))
		receiptText = "\nReceipt (paste into the verifier to confirm these results):\n" + receipt + "\n"
	}

	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<style>
		body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
		.container { max-width: 600px; margin: 0 auto; padding: 20px; }
		.header { background-color: #2563eb; color: white; padding: 20px; text-align: center; border-radius: 5px 5px 0 0; }
		.content { background-color: #f9f9f9; padding: 30px; border-radius: 0 0 5px 5px; }
		.report { white-space: pre-wrap; font-family: monospace; background: #fff; padding: 12px; border: 1px solid #ddd; }
		.receipt { word-break: break-all; font-size: 12px; color: #666; }
		.footer { text-align: center; margin-top: 20px; font-size: 12px; color: #666; }
	</style>
</head>
<body>
	<div class="container">
		<div class="header">
			<h1>Homework Results</h1>
		</div>
		<div class="content">
			<p>%s has finished "%s".</p>
			<div class="report">%s</div>%s
		</div>
		<div class="footer">
			<p>This is an automated email from Sentence Scramble. Please do not reply.</p>
		</div>
	</div>
</body>
</html>
`, html.EscapeString(student), html.EscapeString(title), html.EscapeString(shareText), receiptHTML)

	textBody := fmt.Sprintf(`%s has finished "%s".

%s
%s
---
This is an automated email from Sentence Scramble. Please do not reply.
`, student, title, shareText, receiptText)

	return s.sendEmail(ctx, toEmail, subject, htmlBody, textBody)
}

// SendInstructions emails an assignment's instructions and link
func (s *EmailService) SendInstructions(ctx context.Context, toEmail, title, instructions string) error {
	if err := validation.ValidateEmail(toEmail); err != nil {
		return err
	}
	if !s.enabled {
		zap.L().Info("skipping email send (service disabled)",
			zap.String("kind", "instructions"), zap.String("to", toEmail))
		return nil
	}

	if strings.TrimSpace(title) == "" {
		title = "Assignment"
	}
	subject := "Homework: " + title

	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<style>
		body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
		.container { max-width: 600px; margin: 0 auto; padding: 20px; }
		.content { background-color: #f9f9f9; padding: 30px; border-radius: 5px; white-space: pre-wrap; }
		.footer { text-align: center; margin-top: 20px; font-size: 12px; color: #666; }
	</style>
</head>
<body>
	<div class="container">
		<div class="content">%s</div>
		<div class="footer">
			<p>Sent with Sentence Scramble.</p>
		</div>
	</div>
</body>
</html>
`, html.EscapeString(instructions))

	textBody := instructions + "\n\n---\nSent with Sentence Scramble.\n"

	return s.sendEmail(ctx, toEmail, subject, htmlBody, textBody)
}

// sendEmail sends an email using Amazon SES
func (s *EmailService) sendEmail(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	fromAddress := s.fromEmail
	if s.fromName != "" {
		fromAddress = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	if s.debug {
		zap.L().Debug("sending email",
			zap.String("from", fromAddress),
			zap.String("to", toEmail),
			zap.String("subject", subject),
			zap.Int("html_bytes", len(htmlBody)),
			zap.Int("text_bytes", len(textBody)))
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(htmlBody),
						Charset: aws.String("UTF-8"),
					},
					Text: &types.Content{
						Data:    aws.String(textBody),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send email to %s: %w", toEmail, err)
	}

	fields := []zap.Field{zap.String("to", toEmail), zap.String("subject", subject)}
	if result.MessageId != nil {
		fields = append(fields, zap.String("message_id", *result.MessageId))
	}
	zap.L().Info("email sent", fields...)
	return nil
}
