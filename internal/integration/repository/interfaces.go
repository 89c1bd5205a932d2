package repository

import (
	"context"
	"time"

	"torch-backend/internal/integration/domain"
)

// IntegrationRepository persists integration rows and their credentials.
type IntegrationRepository interface {
	// Upsert inserts a new integration or, when the (user, service) pair
	// already exists, replaces its credentials and reactivates it.
	Upsert(ctx context.Context, integration *domain.Integration) error
	FindByID(ctx context.Context, id string) (*domain.Integration, error)
	FindByUser(ctx context.Context, userID string) ([]*domain.Integration, error)
	// UpdateCredentials writes the full credential blob back. Callers merge
	// refreshed fields into the existing blob before calling.
	UpdateCredentials(ctx context.Context, id string, creds domain.Credentials) error
	UpdateLastSync(ctx context.Context, id string, at time.Time) error
	// Delete removes the integration row only. Previously synced entity
	// rows are kept as historical data.
	Delete(ctx context.Context, id string) error
}

// EmailRepository stores synced Gmail messages.
type EmailRepository interface {
	Upsert(ctx context.Context, email *domain.Email) error
	RecentByUser(ctx context.Context, userID string, limit int) ([]*domain.Email, error)
	UnreadByUser(ctx context.Context, userID string, limit int) ([]*domain.Email, error)
}

// CalendarEventRepository stores synced calendar events.
type CalendarEventRepository interface {
	Upsert(ctx context.Context, event *domain.CalendarEvent) error
	UpcomingByUser(ctx context.Context, userID string, from time.Time, limit int) ([]*domain.CalendarEvent, error)
}

// DiscordMessageRepository stores synced Discord messages.
type DiscordMessageRepository interface {
	Upsert(ctx context.Context, message *domain.DiscordMessage) error
	RecentByUser(ctx context.Context, userID string, limit int) ([]*domain.DiscordMessage, error)
	MentionsByUser(ctx context.Context, userID string, limit int) ([]*domain.DiscordMessage, error)
}

// SyncLogRepository appends sync run outcomes. Entries are never updated.
type SyncLogRepository interface {
	Append(ctx context.Context, entry *domain.SyncLogEntry) error
	ListByIntegration(ctx context.Context, integrationID string, limit int) ([]*domain.SyncLogEntry, error)
}

// SyncLeaseRepository provides per-integration mutual exclusion for sync
// runs. Acquire returns false when a live lease is held by someone else.
type SyncLeaseRepository interface {
	Acquire(ctx context.Context, integrationID, holder string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, integrationID, holder string) error
}
