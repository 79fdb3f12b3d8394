package service

import (
	"context"
	"strings"

	"phonebook/internal/metrics"
	"phonebook/internal/utils"
)

// Authenticate resolves an Authorization header to the caller's identity. A
// token is honoured only while it is the session stored on the user, so a
// later login or a logout invalidates it before it expires. Every failure is
// reported as ErrUnauthorized.
func (s *AuthService) Authenticate(ctx context.Context, authorization string) (identity Identity, err error) {
	defer func() { metrics.RecordAuthEvent(metrics.EventAuthenticate, err) }()

	token := extractBearerToken(authorization)
	if token == "" {
		s.logger.Debug("authenticate: missing bearer token")
		return Identity{}, ErrUnauthorized
	}

	userID, err := s.sessionTokens.ParseSessionToken(token)
	if err != nil {
		s.logger.WithError(err).Debug("authenticate: token rejected")
		return Identity{}, ErrUnauthorized
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return Identity{}, err
	}
	if user == nil {
		s.logger.WithField("user_id", userID).Debug("authenticate: user not found")
		return Identity{}, ErrUnauthorized
	}

	if user.SessionToken == nil || !utils.TokensEqual(*user.SessionToken, token) {
		s.logger.WithField("user_id", userID).Debug("authenticate: session superseded")
		return Identity{}, ErrUnauthorized
	}
	return IdentityFromUser(user), nil
}

func extractBearerToken(authorization string) string {
	if authorization == "" {
		return ""
	}
	parts := strings.SplitN(authorization, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
