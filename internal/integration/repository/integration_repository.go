package repository

import (
	"context"
	"errors"
	"time"

	"torch-backend/internal/integration/domain"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// integrationRepository implements IntegrationRepository using GORM
type integrationRepository struct {
	db *gorm.DB
}

// NewIntegrationRepository creates a new instance of integrationRepository
func NewIntegrationRepository(db *gorm.DB) IntegrationRepository {
	return &integrationRepository{db: db}
}

func (r *integrationRepository) Upsert(ctx context.Context, integration *domain.Integration) error {
	now := time.Now()
	if integration.ID == "" {
		integration.ID = uuid.New().String()
	}
	integration.CreatedAt = now
	integration.UpdatedAt = now

	// Reconnecting an already-linked service replaces its credentials
	// instead of violating the (user_id, service) unique index. RETURNING
	// id overwrites the freshly generated uuid with the existing row's id
	// on that conflict path, so callers hand back an id that resolves.
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "service"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"credentials", "is_active", "sync_settings", "updated_at",
		}),
	}, clause.Returning{
		Columns: []clause.Column{{Name: "id"}},
	}).Create(integration).Error
}

func (r *integrationRepository) FindByID(ctx context.Context, id string) (*domain.Integration, error) {
	var integration domain.Integration
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&integration).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrIntegrationNotFound
		}
		return nil, err
	}
	return &integration, nil
}

func (r *integrationRepository) FindByUser(ctx context.Context, userID string) ([]*domain.Integration, error) {
	var integrations []*domain.Integration
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&integrations).Error
	return integrations, err
}

func (r *integrationRepository) UpdateCredentials(ctx context.Context, id string, creds domain.Credentials) error {
	return r.db.WithContext(ctx).Model(&domain.Integration{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"credentials": datatypes.NewJSONType(creds),
			"updated_at":  time.Now(),
		}).Error
}

func (r *integrationRepository) UpdateLastSync(ctx context.Context, id string, at time.Time) error {
	return r.db.WithContext(ctx).Model(&domain.Integration{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"last_sync":  at,
			"updated_at": at,
		}).Error
}

func (r *integrationRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&domain.Integration{}, "id = ?", id).Error
}
