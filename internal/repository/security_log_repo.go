package repository

import (
	"context"
	"fmt"

	"phonebook/internal/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SecurityLogRepository appends audit rows. Rows are never updated.
type SecurityLogRepository interface {
	Log(ctx context.Context, log *entity.SecurityLog) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]entity.SecurityLog, error)
}

type securityLogRepository struct {
	db *gorm.DB
}

func NewSecurityLogRepository(db *gorm.DB) SecurityLogRepository {
	return &securityLogRepository{db: db}
}

func (r *securityLogRepository) Log(ctx context.Context, log *entity.SecurityLog) error {
	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(log).Error; err != nil {
		return fmt.Errorf("write security log: %w", err)
	}
	return nil
}

// ListByUser returns the user's most recent audit rows, newest first. A limit
// of zero or less returns every row.
func (r *securityLogRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]entity.SecurityLog, error) {
	query := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var logs []entity.SecurityLog
	if err := query.Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("list security logs: %w", err)
	}
	return logs, nil
}
