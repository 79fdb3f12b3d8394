package repository

import (
	"testing"

	"phonebook/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepositoryCreateAndFind(t *testing.T) {
	repo := NewUserRepository(newRepositoryDBForTest(t))
	ctx := t.Context()

	user := seedUser(t, repo, "  Bob@Example.com ")
	require.NotEqual(t, uuid.Nil, user.ID)
	assert.Equal(t, "bob@example.com", user.Email)

	byID, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, "bob@example.com", byID.Email)
	assert.False(t, byID.Verified)
	assert.Nil(t, byID.SessionToken)

	byEmail, err := repo.FindByEmail(ctx, "BOB@example.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, user.ID, byEmail.ID)
}

func TestUserRepositoryMissingUser(t *testing.T) {
	repo := NewUserRepository(newRepositoryDBForTest(t))

	user, err := repo.FindByID(t.Context(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, user)

	user, err = repo.FindByEmail(t.Context(), "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestUserRepositoryDuplicateEmail(t *testing.T) {
	repo := NewUserRepository(newRepositoryDBForTest(t))
	seedUser(t, repo, "dup@example.com")

	err := repo.Create(t.Context(), &entity.User{Email: "DUP@example.com", PasswordHash: "hash"})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestUserRepositoryUpdateSubscription(t *testing.T) {
	repo := NewUserRepository(newRepositoryDBForTest(t))
	ctx := t.Context()
	user := seedUser(t, repo, "sub@example.com")

	require.NoError(t, repo.UpdateSubscription(ctx, user.ID, entity.SubscriptionBusiness))
	updated, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.SubscriptionBusiness, updated.SubscriptionTier)

	assert.ErrorIs(t, repo.UpdateSubscription(ctx, uuid.New(), entity.SubscriptionPro), ErrNotFound)
}
