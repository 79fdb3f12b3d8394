package service

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"
)

// LogEmailSender writes verification links to the log instead of mailing
// them. Used for local development.
type LogEmailSender struct {
	Logger     logrus.FieldLogger
	AppBaseURL string
}

func NewLogEmailSender(logger logrus.FieldLogger, appBaseURL string) *LogEmailSender {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &LogEmailSender{Logger: logger, AppBaseURL: strings.TrimRight(appBaseURL, "/")}
}

func (s *LogEmailSender) SendVerificationEmail(_ context.Context, email string, token string) error {
	s.Logger.WithFields(logrus.Fields{
		"to":   email,
		"link": verificationLink(s.AppBaseURL, token),
	}).Info("verification email")
	return nil
}
