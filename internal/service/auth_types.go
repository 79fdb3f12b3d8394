package service

import (
	"context"
	"time"

	"phonebook/internal/entity"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AuthConfig struct {
	AvatarSize int
}

type EmailSender interface {
	SendVerificationEmail(ctx context.Context, email string, token string) error
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash string, password string) bool
}

type SessionTokenIssuer interface {
	IssueSessionToken(user entity.User) (string, time.Duration, error)
	ParseSessionToken(token string) (uuid.UUID, error)
}

type VerificationTokenIssuer interface {
	IssueVerificationToken(email string) (string, time.Duration, error)
	ParseVerificationToken(token string) (string, error)
}

// Identity is the authenticated caller produced by Authenticate. It is passed
// explicitly to everything that acts on behalf of the caller.
type Identity struct {
	ID               uuid.UUID
	Email            string
	SubscriptionTier entity.SubscriptionTier
	AvatarURL        string
}

func IdentityFromUser(user *entity.User) Identity {
	return Identity{
		ID:               user.ID,
		Email:            user.Email,
		SubscriptionTier: user.SubscriptionTier,
		AvatarURL:        user.AvatarURL,
	}
}

type LoginResult struct {
	Token string
	User  *entity.User
}

type BcryptPasswordHasher struct {
	Cost int
}

func (h BcryptPasswordHasher) Hash(password string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func (h BcryptPasswordHasher) Verify(hash string, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
