package repository

import (
	"context"
	"fmt"

	"phonebook/internal/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VerificationRepository manages the outstanding email verification token
// hash of unverified users.
type VerificationRepository interface {
	StoreHash(ctx context.Context, userID uuid.UUID, tokenHash string) error
	MarkVerified(ctx context.Context, userID uuid.UUID) error
}

type verificationRepository struct {
	db *gorm.DB
}

func NewVerificationRepository(db *gorm.DB) VerificationRepository {
	return &verificationRepository{db: db}
}

// StoreHash overwrites the stored hash, invalidating any earlier token. It
// returns ErrNotFound when the user does not exist or is already verified.
func (r *verificationRepository) StoreHash(ctx context.Context, userID uuid.UUID, tokenHash string) error {
	result := r.db.WithContext(ctx).
		Model(&entity.User{}).
		Where("id = ? AND verified = ?", userID, false).
		Update("verification_token_hash", tokenHash)
	if result.Error != nil {
		return fmt.Errorf("store verification hash: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkVerified flips the user to verified and drops the token hash. Only the
// first of several concurrent calls succeeds; the rest get ErrNotFound.
func (r *verificationRepository) MarkVerified(ctx context.Context, userID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&entity.User{}).
		Where("id = ? AND verified = ?", userID, false).
		Updates(map[string]any{
			"verified":                true,
			"verification_token_hash": nil,
		})
	if result.Error != nil {
		return fmt.Errorf("mark verified: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
