package repository

import (
	"context"
	"time"

	"torch-backend/internal/integration/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// syncLeaseRepository implements SyncLeaseRepository using GORM
type syncLeaseRepository struct {
	db *gorm.DB
}

// NewSyncLeaseRepository creates a new instance of syncLeaseRepository
func NewSyncLeaseRepository(db *gorm.DB) SyncLeaseRepository {
	return &syncLeaseRepository{db: db}
}

// Acquire takes the lease for an integration. The conditional upsert only
// overwrites an existing lease when it has gone stale, so a live lease held
// by another invocation makes this return false.
func (r *syncLeaseRepository) Acquire(ctx context.Context, integrationID, holder string, ttl time.Duration) (bool, error) {
	now := time.Now()
	lease := domain.SyncLease{
		IntegrationID: integrationID,
		Holder:        holder,
		ExpiresAt:     now.Add(ttl),
	}

	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "integration_id"}},
		Where: clause.Where{Exprs: []clause.Expression{
			clause.Lt{Column: clause.Column{Table: "sync_leases", Name: "expires_at"}, Value: now},
		}},
		DoUpdates: clause.AssignmentColumns([]string{"holder", "expires_at"}),
	}).Create(&lease)

	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *syncLeaseRepository) Release(ctx context.Context, integrationID, holder string) error {
	return r.db.WithContext(ctx).
		Where("integration_id = ? AND holder = ?", integrationID, holder).
		Delete(&domain.SyncLease{}).Error
}
