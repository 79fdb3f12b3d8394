package service

import (
	"errors"
	"time"

	"phonebook/internal/entity"
	"phonebook/internal/utils"

	"github.com/google/uuid"
)

var errIssuerNotConfigured = errors.New("token issuer not configured")

type JWTSessionIssuer struct {
	Manager *utils.JWTManager
}

func (j JWTSessionIssuer) IssueSessionToken(user entity.User) (string, time.Duration, error) {
	if j.Manager == nil {
		return "", 0, errIssuerNotConfigured
	}
	return j.Manager.IssueSessionToken(user.ID.String(), user.Email, string(user.SubscriptionTier))
}

func (j JWTSessionIssuer) ParseSessionToken(token string) (uuid.UUID, error) {
	if j.Manager == nil {
		return uuid.Nil, errIssuerNotConfigured
	}
	claims, err := j.Manager.ParseSessionToken(token)
	if err != nil {
		return uuid.Nil, err
	}
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return uuid.Nil, utils.ErrInvalidToken
	}
	return id, nil
}
