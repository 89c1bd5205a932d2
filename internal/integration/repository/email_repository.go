package repository

import (
	"context"
	"time"

	"torch-backend/internal/integration/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// emailRepository implements EmailRepository using GORM
type emailRepository struct {
	db *gorm.DB
}

// NewEmailRepository creates a new instance of emailRepository
func NewEmailRepository(db *gorm.DB) EmailRepository {
	return &emailRepository{db: db}
}

// Upsert inserts or updates the row keyed by (integration_id, message_id).
// Re-fetching the same message during a later sync updates in place.
func (r *emailRepository) Upsert(ctx context.Context, email *domain.Email) error {
	now := time.Now()
	if email.ID == "" {
		email.ID = uuid.New().String()
	}
	email.CreatedAt = now
	email.UpdatedAt = now

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "integration_id"}, {Name: "message_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"thread_id", "subject", "from_address", "to_addresses",
			"cc_addresses", "body_preview", "is_read", "is_important",
			"labels", "received_at", "updated_at",
		}),
	}).Create(email).Error
}

func (r *emailRepository) RecentByUser(ctx context.Context, userID string, limit int) ([]*domain.Email, error) {
	var emails []*domain.Email
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("received_at DESC").
		Limit(limit).
		Find(&emails).Error
	return emails, err
}

func (r *emailRepository) UnreadByUser(ctx context.Context, userID string, limit int) ([]*domain.Email, error) {
	var emails []*domain.Email
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_read = ?", userID, false).
		Order("received_at DESC").
		Limit(limit).
		Find(&emails).Error
	return emails, err
}
