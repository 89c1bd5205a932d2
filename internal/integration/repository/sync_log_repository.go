package repository

import (
	"context"
	"time"

	"torch-backend/internal/integration/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// syncLogRepository implements SyncLogRepository using GORM
type syncLogRepository struct {
	db *gorm.DB
}

// NewSyncLogRepository creates a new instance of syncLogRepository
func NewSyncLogRepository(db *gorm.DB) SyncLogRepository {
	return &syncLogRepository{db: db}
}

func (r *syncLogRepository) Append(ctx context.Context, entry *domain.SyncLogEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	entry.CreatedAt = time.Now()
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *syncLogRepository) ListByIntegration(ctx context.Context, integrationID string, limit int) ([]*domain.SyncLogEntry, error) {
	var entries []*domain.SyncLogEntry
	err := r.db.WithContext(ctx).
		Where("integration_id = ?", integrationID).
		Order("sync_start DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}
