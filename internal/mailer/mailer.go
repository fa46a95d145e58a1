package mailer

import (
	"context"
	"fmt"

	"stitchmart/internal/config"

	gomail "github.com/wneessen/go-mail"
)

// Mailer sends transactional email. Implementations must be safe for
// concurrent use.
type Mailer interface {
	SendPasswordReset(ctx context.Context, to, resetLink string) error
	SendOrderConfirmation(ctx context.Context, to, orderID string) error
}

type smtpMailer struct {
	cfg config.SMTPConfig
}

// NewSMTPMailer creates a Mailer backed by an SMTP server
func NewSMTPMailer(cfg config.SMTPConfig) Mailer {
	return &smtpMailer{cfg: cfg}
}

func (m *smtpMailer) send(ctx context.Context, to, subject, body string) error {
	msg := gomail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return fmt.Errorf("failed to set from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("failed to set to address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, body)

	client, err := gomail.NewClient(
		m.cfg.Host,
		gomail.WithPort(m.cfg.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(m.cfg.Username),
		gomail.WithPassword(m.cfg.Password),
	)
	if err != nil {
		return fmt.Errorf("failed to create smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

func (m *smtpMailer) SendPasswordReset(ctx context.Context, to, resetLink string) error {
	body := fmt.Sprintf(
		"We received a request to reset your password.\n\n"+
			"Follow this link to choose a new one:\n%s\n\n"+
			"The link expires in one hour. If you did not request a reset, ignore this email.\n",
		resetLink,
	)
	return m.send(ctx, to, "Reset your password", body)
}

func (m *smtpMailer) SendOrderConfirmation(ctx context.Context, to, orderID string) error {
	body := fmt.Sprintf(
		"Thanks for your order!\n\n"+
			"Order %s has been received and is being prepared.\n"+
			"You will be notified as it moves through fulfillment.\n",
		orderID,
	)
	return m.send(ctx, to, "Order confirmation", body)
}
