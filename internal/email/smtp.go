package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/clinichq/clinic-api/config"
)

type smtpService struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPService(cfg config.SMTPConfig) Service {
	return &smtpService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *smtpService) SendVerification(ctx context.Context, email, name, verifyLink string) error {
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>Please confirm your account by following this link:</p><p><a href=%q>%s</a></p><p>The link expires in 48 hours and can be used once.</p>",
		name, verifyLink, verifyLink,
	)
	return s.send(ctx, email, "Verify your account", body)
}

func (s *smtpService) SendWelcome(ctx context.Context, email, name string) error {
	body := fmt.Sprintf("<p>Hi %s,</p><p>Your account is now active. You can sign in and book appointments.</p>", name)
	return s.send(ctx, email, "Welcome aboard", body)
}

func (s *smtpService) send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}
