package usecase

import (
	"context"
	"time"

	"torch-backend/internal/integration/domain"
	"torch-backend/internal/integration/provider"
	"torch-backend/internal/integration/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Lease duration for one sync run. A crashed invocation's lease goes stale
// after this long and can be reclaimed.
const syncLeaseTTL = 2 * time.Minute

// SyncUsecase orchestrates the OAuth lifecycle and sync runs across
// providers behind a uniform contract, so delivery never branches on the
// service name.
type SyncUsecase interface {
	AuthURL(service domain.Service) (string, error)
	HandleCallback(ctx context.Context, service domain.Service, code, userID, source string) (*domain.Integration, error)
	TriggerSync(ctx context.Context, integrationID string) (int, error)
	ListIntegrations(ctx context.Context, userID string) ([]*domain.Integration, error)
	SyncLogs(ctx context.Context, integrationID string, limit int) ([]*domain.SyncLogEntry, error)
	// Disconnect deletes the integration row; previously synced entities
	// are kept as historical data.
	Disconnect(ctx context.Context, integrationID string) error
}

// syncUsecase implements SyncUsecase
type syncUsecase struct {
	providers    *provider.Registry
	integrations repository.IntegrationRepository
	syncLogs     repository.SyncLogRepository
	leases       repository.SyncLeaseRepository
	log          zerolog.Logger
	now          func() time.Time
}

// NewSyncUsecase creates a new instance of syncUsecase
func NewSyncUsecase(providers *provider.Registry, integrations repository.IntegrationRepository, syncLogs repository.SyncLogRepository, leases repository.SyncLeaseRepository, log zerolog.Logger) SyncUsecase {
	return &syncUsecase{
		providers:    providers,
		integrations: integrations,
		syncLogs:     syncLogs,
		leases:       leases,
		log:          log.With().Str("component", "sync").Logger(),
		now:          time.Now,
	}
}

func (u *syncUsecase) AuthURL(service domain.Service) (string, error) {
	p, err := u.providers.Lookup(service)
	if err != nil {
		return "", err
	}
	return p.AuthURL()
}

func (u *syncUsecase) HandleCallback(ctx context.Context, service domain.Service, code, userID, source string) (*domain.Integration, error) {
	p, err := u.providers.Lookup(service)
	if err != nil {
		return nil, err
	}
	integration, err := p.ExchangeCode(ctx, code, userID, source)
	if err != nil {
		return nil, err
	}
	u.log.Info().
		Str("service", string(service)).
		Str("integration_id", integration.ID).
		Msg("integration connected")
	return integration, nil
}

// TriggerSync runs one sync pass under a per-integration lease. Every
// attempt, failed ones included, ends with exactly one sync log entry.
func (u *syncUsecase) TriggerSync(ctx context.Context, integrationID string) (int, error) {
	integration, err := u.integrations.FindByID(ctx, integrationID)
	if err != nil {
		return 0, err
	}
	p, err := u.providers.Lookup(integration.Service)
	if err != nil {
		return 0, err
	}

	holder := uuid.New().String()
	acquired, err := u.leases.Acquire(ctx, integrationID, holder, syncLeaseTTL)
	if err != nil {
		return 0, err
	}
	if !acquired {
		return 0, domain.ErrSyncInProgress
	}
	defer func() {
		if err := u.leases.Release(ctx, integrationID, holder); err != nil {
			u.log.Warn().Err(err).Str("integration_id", integrationID).Msg("failed to release sync lease")
		}
	}()

	start := u.now()
	synced, syncErr := p.Sync(ctx, integration)
	end := u.now()

	entry := &domain.SyncLogEntry{
		IntegrationID: integrationID,
		SyncStart:     start,
		SyncEnd:       end,
		Status:        domain.SyncStatusSuccess,
		ItemsSynced:   synced,
	}
	if syncErr != nil {
		entry.Status = domain.SyncStatusFailure
		entry.Error = syncErr.Error()
	}
	if err := u.syncLogs.Append(ctx, entry); err != nil {
		u.log.Warn().Err(err).Str("integration_id", integrationID).Msg("failed to append sync log entry")
	}

	if syncErr != nil {
		u.log.Error().Err(syncErr).
			Str("integration_id", integrationID).
			Str("service", string(integration.Service)).
			Msg("sync run failed")
		return synced, syncErr
	}

	if err := u.integrations.UpdateLastSync(ctx, integrationID, end); err != nil {
		u.log.Warn().Err(err).Str("integration_id", integrationID).Msg("failed to update last_sync")
	}

	u.log.Info().
		Str("integration_id", integrationID).
		Str("service", string(integration.Service)).
		Int("synced", synced).
		Dur("took", end.Sub(start)).
		Msg("sync run completed")
	return synced, nil
}

func (u *syncUsecase) ListIntegrations(ctx context.Context, userID string) ([]*domain.Integration, error) {
	return u.integrations.FindByUser(ctx, userID)
}

func (u *syncUsecase) SyncLogs(ctx context.Context, integrationID string, limit int) ([]*domain.SyncLogEntry, error) {
	if _, err := u.integrations.FindByID(ctx, integrationID); err != nil {
		return nil, err
	}
	return u.syncLogs.ListByIntegration(ctx, integrationID, limit)
}

func (u *syncUsecase) Disconnect(ctx context.Context, integrationID string) error {
	if _, err := u.integrations.FindByID(ctx, integrationID); err != nil {
		return err
	}
	return u.integrations.Delete(ctx, integrationID)
}
