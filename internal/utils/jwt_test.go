package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	m := JWTManager{Secret: []byte("test-secret"), Issuer: "phonebook", SessionTTL: time.Minute}

	token, ttl, err := m.IssueSessionToken("user-1", "a@x.com", "pro")
	require.NoError(t, err)
	assert.Equal(t, time.Minute, ttl)

	claims, err := m.ParseSessionToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Equal(t, "pro", claims.SubscriptionTier)
	assert.NotEmpty(t, claims.ID)
}

func TestSessionTokensAreUnique(t *testing.T) {
	m := JWTManager{Secret: []byte("test-secret")}

	first, _, err := m.IssueSessionToken("user-1", "a@x.com", "starter")
	require.NoError(t, err)
	second, _, err := m.IssueSessionToken("user-1", "a@x.com", "starter")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestParseSessionTokenRejects(t *testing.T) {
	m := JWTManager{Secret: []byte("test-secret")}
	other := JWTManager{Secret: []byte("other-secret")}
	expired := JWTManager{Secret: []byte("test-secret"), SessionTTL: -time.Minute}

	foreign, _, err := other.IssueSessionToken("user-1", "a@x.com", "starter")
	require.NoError(t, err)
	stale, _, err := expired.IssueSessionToken("user-1", "a@x.com", "starter")
	require.NoError(t, err)

	for name, token := range map[string]string{
		"empty":         "",
		"garbage":       "not-a-jwt",
		"wrong secret":  foreign,
		"expired token": stale,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := m.ParseSessionToken(token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestHashToken(t *testing.T) {
	a := HashToken("token-a")
	assert.Equal(t, a, HashToken("token-a"))
	assert.NotEqual(t, a, HashToken("token-b"))
	assert.NotContains(t, a, "token-a")

	assert.True(t, TokensEqual("x", "x"))
	assert.False(t, TokensEqual("x", "y"))
	assert.False(t, TokensEqual("x", ""))
}

func TestGravatarURL(t *testing.T) {
	url := GravatarURL(" A@X.com ", 0)
	assert.Equal(t, GravatarURL("a@x.com", 250), url)
	assert.Contains(t, url, "https://www.gravatar.com/avatar/")
	assert.Contains(t, url, "d=mp")
	assert.Contains(t, url, "s=250")
}
