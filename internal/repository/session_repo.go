package repository

import (
	"context"
	"fmt"

	"phonebook/internal/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SessionRepository owns User.SessionToken. A user has at most one session:
// Replace overwrites whatever token was stored, Revoke clears it.
type SessionRepository interface {
	Replace(ctx context.Context, userID uuid.UUID, token string) error
	Revoke(ctx context.Context, userID uuid.UUID) error
}

type sessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

// Replace is a blind last-write-wins update; concurrent logins are not
// serialized.
func (r *sessionRepository) Replace(ctx context.Context, userID uuid.UUID, token string) error {
	result := r.db.WithContext(ctx).
		Model(&entity.User{}).
		Where("id = ?", userID).
		Update("session_token", token)
	if result.Error != nil {
		return fmt.Errorf("replace session: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *sessionRepository) Revoke(ctx context.Context, userID uuid.UUID) error {
	err := r.db.WithContext(ctx).
		Model(&entity.User{}).
		Where("id = ?", userID).
		Update("session_token", nil).
		Error
	if err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}
