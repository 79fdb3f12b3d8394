package service

import (
	"context"
	"errors"
	"strings"

	"phonebook/internal/entity"
	"phonebook/internal/metrics"
	"phonebook/internal/repository"
	"phonebook/internal/utils"
	"phonebook/internal/validation"
	"phonebook/internal/worker"
)

// Activate marks the owner of rawToken verified. Only the most recently
// issued token for a user is accepted, and only once.
func (s *AuthService) Activate(ctx context.Context, rawToken string) (err error) {
	defer func() { metrics.RecordAuthEvent(metrics.EventVerify, err) }()

	rawToken = strings.TrimSpace(rawToken)
	if rawToken == "" {
		return ErrInvalidToken
	}
	email, err := s.verificationTokens.ParseVerificationToken(rawToken)
	if err != nil {
		return ErrInvalidToken
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	if user.Verified {
		return ErrAlreadyVerified
	}
	if user.VerificationTokenHash == nil || !utils.TokensEqual(*user.VerificationTokenHash, utils.HashToken(rawToken)) {
		return ErrInvalidToken
	}

	if err := s.verifications.MarkVerified(ctx, user.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAlreadyVerified
		}
		return err
	}
	s.logSecurity(ctx, &user.ID, entity.EmailVerified, nil)
	return nil
}

// Reverify issues a fresh verification token for an unverified user, which
// invalidates every token sent before it.
func (s *AuthService) Reverify(ctx context.Context, raw validation.Fields) (err error) {
	defer func() { metrics.RecordAuthEvent(metrics.EventReverify, err) }()

	fields, err := s.validator.Validate(entity.UserRules, raw, emailPresence)
	if err != nil {
		return err
	}
	user, err := s.users.FindByEmail(ctx, fields.String(entity.FieldEmail))
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	if user.Verified {
		return ErrAlreadyVerified
	}

	token, tokenHash, err := s.issueVerification(ctx, user.Email)
	if err != nil {
		return err
	}
	if err := s.verifications.StoreHash(ctx, user.ID, tokenHash); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAlreadyVerified
		}
		return err
	}
	return s.sendVerification(ctx, user, token)
}

// issueVerification signs a verification token for email and returns it
// together with the hash that gets persisted in its place.
func (s *AuthService) issueVerification(ctx context.Context, email string) (string, string, error) {
	token, err := worker.Run(ctx, s.pool, func() (string, error) {
		token, _, err := s.verificationTokens.IssueVerificationToken(email)
		return token, err
	})
	if err != nil {
		return "", "", err
	}
	return token, utils.HashToken(token), nil
}

func (s *AuthService) sendVerification(ctx context.Context, user *entity.User, token string) error {
	if s.emailSender == nil {
		return errSenderNotConfigured
	}
	if err := s.emailSender.SendVerificationEmail(ctx, user.Email, token); err != nil {
		return err
	}
	s.logSecurity(ctx, &user.ID, entity.VerificationSent, nil)
	return nil
}
