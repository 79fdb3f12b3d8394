package service

import (
	"context"
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"
)

// Dialer is the part of gomail.Dialer the SMTP sender needs.
type Dialer interface {
	DialAndSend(messages ...*gomail.Message) error
}

type SMTPEmailSender struct {
	Dialer     Dialer
	From       string
	AppBaseURL string
}

func NewSMTPEmailSender(host string, port int, user string, password string, from string, appBaseURL string) *SMTPEmailSender {
	if strings.TrimSpace(host) == "" || strings.TrimSpace(from) == "" {
		return &SMTPEmailSender{}
	}
	return &SMTPEmailSender{
		Dialer:     gomail.NewDialer(host, port, user, password),
		From:       from,
		AppBaseURL: strings.TrimRight(appBaseURL, "/"),
	}
}

// SendVerificationEmail dials per message. gomail has no context support, so
// ctx is only checked before dialing.
func (s *SMTPEmailSender) SendVerificationEmail(ctx context.Context, email string, token string) error {
	if s.Dialer == nil {
		return errSenderNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	link := verificationLink(s.AppBaseURL, token)

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", email)
	m.SetHeader("Subject", verifySubject)
	m.SetBody("text/plain", verificationText(link))
	m.AddAlternative("text/html", verificationHTML(link))

	if err := s.Dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp verification email: %w", err)
	}
	return nil
}
