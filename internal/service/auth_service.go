package service

import (
	"context"
	"encoding/json"
	"errors"

	"phonebook/internal/entity"
	"phonebook/internal/metrics"
	"phonebook/internal/repository"
	"phonebook/internal/utils"
	"phonebook/internal/validation"
	"phonebook/internal/worker"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

// Compared against when the email is unknown so that a miss costs as much as
// a wrong password. NewAuthService replaces it with a hash at the configured
// cost; this one is only used if hashing fails.
const fallbackDummyHash = "$2a$10$CwTycUXWue0Thq9StjUM0uJ8yQbWc1x9uxw2sQ2sXUNx5x9xJ9F2S"

const dummyPassword = "phonebook-timing-guard"

var (
	signupPresence = validation.Lists{
		Process: []string{entity.FieldEmail, entity.FieldPassword, entity.FieldSubscriptionTier},
		Require: []string{entity.FieldEmail, entity.FieldPassword},
	}
	loginPresence = validation.Lists{
		Process: []string{entity.FieldEmail, entity.FieldPassword},
		Require: []string{entity.FieldEmail, entity.FieldPassword},
	}
	emailPresence = validation.Lists{
		Process: []string{entity.FieldEmail},
		Require: []string{entity.FieldEmail},
	}
	subscriptionPresence = validation.Lists{
		Process: []string{entity.FieldSubscriptionTier},
		Require: []string{entity.FieldSubscriptionTier},
	}
)

type AuthService struct {
	users         repository.UserRepository
	sessions      repository.SessionRepository
	verifications repository.VerificationRepository
	securityLogs  repository.SecurityLogRepository

	emailSender        EmailSender
	passwordHash       PasswordHasher
	sessionTokens      SessionTokenIssuer
	verificationTokens VerificationTokenIssuer
	validator          *validation.Engine
	pool               *worker.Pool
	dummyHash          string
	logger             logrus.FieldLogger
	config             AuthConfig
}

func NewAuthService(
	users repository.UserRepository,
	sessions repository.SessionRepository,
	verifications repository.VerificationRepository,
	securityLogs repository.SecurityLogRepository,
	emailSender EmailSender,
	passwordHash PasswordHasher,
	sessionTokens SessionTokenIssuer,
	verificationTokens VerificationTokenIssuer,
	pool *worker.Pool,
	logger logrus.FieldLogger,
	config AuthConfig,
) *AuthService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	dummyHash := fallbackDummyHash
	if passwordHash != nil {
		if hash, err := passwordHash.Hash(dummyPassword); err == nil {
			dummyHash = hash
		} else {
			logger.WithError(err).Warn("build timing guard hash")
		}
	}
	return &AuthService{
		users:              users,
		sessions:           sessions,
		verifications:      verifications,
		securityLogs:       securityLogs,
		emailSender:        emailSender,
		passwordHash:       passwordHash,
		sessionTokens:      sessionTokens,
		verificationTokens: verificationTokens,
		validator:          validation.New(),
		pool:               pool,
		dummyHash:          dummyHash,
		logger:             logger,
		config:             config,
	}
}

// Signup creates an unverified user and mails it a verification token. The
// returned user never has a session.
func (s *AuthService) Signup(ctx context.Context, raw validation.Fields) (user *entity.User, err error) {
	defer func() { metrics.RecordAuthEvent(metrics.EventSignup, err) }()

	fields, err := s.validator.Validate(entity.UserRules, raw, signupPresence)
	if err != nil {
		return nil, err
	}
	email := fields.String(entity.FieldEmail)

	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailAlreadyRegistered
	}

	password := fields.String(entity.FieldPassword)
	hash, err := worker.Run(ctx, s.pool, func() (string, error) {
		return s.passwordHash.Hash(password)
	})
	if err != nil {
		return nil, err
	}

	token, tokenHash, err := s.issueVerification(ctx, email)
	if err != nil {
		return nil, err
	}

	user = &entity.User{
		Email:                 email,
		PasswordHash:          hash,
		SubscriptionTier:      entity.SubscriptionTier(fields.String(entity.FieldSubscriptionTier)),
		AvatarURL:             utils.GravatarURL(email, s.config.AvatarSize),
		VerificationTokenHash: &tokenHash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailAlreadyRegistered
		}
		return nil, err
	}
	s.logSecurity(ctx, &user.ID, entity.Signup, map[string]any{"subscription": user.SubscriptionTier})

	if err := s.sendVerification(ctx, user, token); err != nil {
		s.logger.WithError(err).WithField("user_id", user.ID).Warn("verification email not sent on signup")
	}
	return user, nil
}

// Login checks credentials and starts a new session, silently revoking the
// previous one. Two concurrent logins race and the last write wins.
func (s *AuthService) Login(ctx context.Context, raw validation.Fields) (result *LoginResult, err error) {
	defer func() { metrics.RecordAuthEvent(metrics.EventLogin, err) }()

	fields, err := s.validator.Validate(entity.UserRules, raw, loginPresence)
	if err != nil {
		return nil, err
	}
	email := fields.String(entity.FieldEmail)
	password := fields.String(entity.FieldPassword)

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		if _, err := s.verifyPassword(ctx, s.dummyHash, password); err != nil {
			return nil, err
		}
		s.logSecurity(ctx, nil, entity.LoginFailed, map[string]any{"email": email})
		return nil, ErrInvalidCredentials
	}

	ok, err := s.verifyPassword(ctx, user.PasswordHash, password)
	if err != nil {
		return nil, err
	}
	if !ok {
		s.logSecurity(ctx, &user.ID, entity.LoginFailed, map[string]any{"email": email})
		return nil, ErrInvalidCredentials
	}
	if !user.Verified {
		return nil, ErrEmailNotVerified
	}

	token, err := worker.Run(ctx, s.pool, func() (string, error) {
		token, _, err := s.sessionTokens.IssueSessionToken(*user)
		return token, err
	})
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Replace(ctx, user.ID, token); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	user.SessionToken = &token

	s.logSecurity(ctx, &user.ID, entity.LoginSuccess, nil)
	return &LoginResult{Token: token, User: user}, nil
}

// Logout clears the user's session. Logging out without a session is fine.
func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID) (err error) {
	defer func() { metrics.RecordAuthEvent(metrics.EventLogout, err) }()

	if err := s.sessions.Revoke(ctx, userID); err != nil {
		return err
	}
	s.logSecurity(ctx, &userID, entity.Logout, nil)
	return nil
}

func (s *AuthService) Current(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *AuthService) UpdateSubscription(ctx context.Context, userID uuid.UUID, raw validation.Fields) (*entity.User, error) {
	fields, err := s.validator.Validate(entity.UserRules, raw, subscriptionPresence)
	if err != nil {
		return nil, err
	}
	tier := entity.SubscriptionTier(fields.String(entity.FieldSubscriptionTier))
	if err := s.users.UpdateSubscription(ctx, userID, tier); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	s.logSecurity(ctx, &userID, entity.SubscriptionChanged, map[string]any{"subscription": tier})
	return s.Current(ctx, userID)
}

func (s *AuthService) verifyPassword(ctx context.Context, hash string, password string) (bool, error) {
	return worker.Run(ctx, s.pool, func() (bool, error) {
		return s.passwordHash.Verify(hash, password), nil
	})
}

// logSecurity records an audit row. Audit failures are logged and swallowed.
func (s *AuthService) logSecurity(ctx context.Context, userID *uuid.UUID, action entity.SecurityAction, metadata map[string]any) {
	if s.securityLogs == nil {
		return
	}
	var payload datatypes.JSON
	if metadata != nil {
		bytes, err := json.Marshal(metadata)
		if err != nil {
			s.logger.WithError(err).Warn("encode security log metadata")
			return
		}
		payload = datatypes.JSON(bytes)
	}

	log := &entity.SecurityLog{
		UserID:   userID,
		Action:   action,
		Metadata: payload,
	}
	if err := s.securityLogs.Log(ctx, log); err != nil {
		s.logger.WithError(err).WithField("action", action).Warn("write security log")
	}
}
