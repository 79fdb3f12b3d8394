package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidVerificationToken = errors.New("invalid verification token")

const verifyPurpose = "verify"

type VerificationTokenIssuerJWT struct {
	Secret []byte
	Issuer string
	TTL    time.Duration
}

type verificationClaims struct {
	Email   string `json:"email"`
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

func (v VerificationTokenIssuerJWT) IssueVerificationToken(email string) (string, time.Duration, error) {
	ttl := v.TTL
	if ttl == 0 {
		ttl = 24 * time.Hour
	}
	now := time.Now()
	claims := verificationClaims{
		Email:   email,
		Purpose: verifyPurpose,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    v.Issuer,
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(v.Secret)
	if err != nil {
		return "", 0, err
	}
	return signed, ttl, nil
}

// ParseVerificationToken returns the email the token was issued for.
func (v VerificationTokenIssuerJWT) ParseVerificationToken(token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &verificationClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidVerificationToken
		}
		return v.Secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return "", ErrInvalidVerificationToken
	}
	claims, ok := parsed.Claims.(*verificationClaims)
	if !ok || !parsed.Valid || claims.Purpose != verifyPurpose || claims.Email == "" {
		return "", ErrInvalidVerificationToken
	}
	return claims.Email, nil
}
