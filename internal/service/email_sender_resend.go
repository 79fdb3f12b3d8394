package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/resend/resend-go/v2"
)

var errSenderNotConfigured = errors.New("email sender not configured")

const (
	verifySubject = "Verify your email"
	verifyPath    = "/users/verify/"
)

type ResendEmailSender struct {
	Client     *resend.Client
	From       string
	AppBaseURL string
}

func NewResendEmailSender(apiKey string, from string, appBaseURL string) *ResendEmailSender {
	if strings.TrimSpace(apiKey) == "" || strings.TrimSpace(from) == "" {
		return &ResendEmailSender{}
	}
	return &ResendEmailSender{
		Client:     resend.NewClient(apiKey),
		From:       from,
		AppBaseURL: strings.TrimRight(appBaseURL, "/"),
	}
}

func (s *ResendEmailSender) SendVerificationEmail(ctx context.Context, email string, token string) error {
	if s.Client == nil {
		return errSenderNotConfigured
	}
	link := verificationLink(s.AppBaseURL, token)
	_, err := s.Client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    s.From,
		To:      []string{email},
		Subject: verifySubject,
		Html:    verificationHTML(link),
		Text:    verificationText(link),
	})
	if err != nil {
		return fmt.Errorf("resend verification email: %w", err)
	}
	return nil
}

// verificationLink points at GET /users/verify/:token. Without a base URL the
// bare token is mailed.
func verificationLink(baseURL string, token string) string {
	base := strings.TrimRight(baseURL, "/")
	if base == "" {
		return token
	}
	return base + verifyPath + token
}

func verificationHTML(link string) string {
	return fmt.Sprintf("<p>Click to verify your email:</p><p><a target=\"_blank\" href=\"%s\">Verify Email</a></p>", link)
}

func verificationText(link string) string {
	return fmt.Sprintf("Verify your email: %s", link)
}
