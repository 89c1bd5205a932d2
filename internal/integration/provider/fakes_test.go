package provider

import (
	"context"
	"fmt"
	"time"

	"torch-backend/internal/integration/domain"
)

type fakeIntegrationRepo struct {
	byID         map[string]*domain.Integration
	upserted     []*domain.Integration
	updatedCreds map[string]domain.Credentials
}

func newFakeIntegrationRepo(integrations ...*domain.Integration) *fakeIntegrationRepo {
	r := &fakeIntegrationRepo{
		byID:         make(map[string]*domain.Integration),
		updatedCreds: make(map[string]domain.Credentials),
	}
	for _, i := range integrations {
		r.byID[i.ID] = i
	}
	return r
}

func (r *fakeIntegrationRepo) Upsert(_ context.Context, integration *domain.Integration) error {
	// Mirror the (user_id, service) conflict handling of the real store:
	// an existing row keeps its id, and the incoming struct picks it up.
	for _, existing := range r.byID {
		if existing.UserID == integration.UserID && existing.Service == integration.Service {
			integration.ID = existing.ID
			break
		}
	}
	if integration.ID == "" {
		integration.ID = fmt.Sprintf("integration-%d", len(r.upserted)+1)
	}
	r.upserted = append(r.upserted, integration)
	r.byID[integration.ID] = integration
	return nil
}

func (r *fakeIntegrationRepo) FindByID(_ context.Context, id string) (*domain.Integration, error) {
	integration, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrIntegrationNotFound
	}
	return integration, nil
}

func (r *fakeIntegrationRepo) FindByUser(_ context.Context, userID string) ([]*domain.Integration, error) {
	var out []*domain.Integration
	for _, i := range r.byID {
		if i.UserID == userID {
			out = append(out, i)
		}
	}
	return out, nil
}

func (r *fakeIntegrationRepo) UpdateCredentials(_ context.Context, id string, creds domain.Credentials) error {
	r.updatedCreds[id] = creds
	return nil
}

func (r *fakeIntegrationRepo) UpdateLastSync(_ context.Context, id string, at time.Time) error {
	if i, ok := r.byID[id]; ok {
		i.LastSync = &at
	}
	return nil
}

func (r *fakeIntegrationRepo) Delete(_ context.Context, id string) error {
	delete(r.byID, id)
	return nil
}

type fakeEmailRepo struct {
	byKey map[string]*domain.Email
}

func newFakeEmailRepo() *fakeEmailRepo {
	return &fakeEmailRepo{byKey: make(map[string]*domain.Email)}
}

func (r *fakeEmailRepo) Upsert(_ context.Context, email *domain.Email) error {
	r.byKey[email.IntegrationID+"/"+email.MessageID] = email
	return nil
}

func (r *fakeEmailRepo) RecentByUser(context.Context, string, int) ([]*domain.Email, error) {
	return nil, nil
}

func (r *fakeEmailRepo) UnreadByUser(context.Context, string, int) ([]*domain.Email, error) {
	return nil, nil
}

type fakeEventRepo struct {
	byKey map[string]*domain.CalendarEvent
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{byKey: make(map[string]*domain.CalendarEvent)}
}

func (r *fakeEventRepo) Upsert(_ context.Context, event *domain.CalendarEvent) error {
	r.byKey[event.IntegrationID+"/"+event.EventID] = event
	return nil
}

func (r *fakeEventRepo) UpcomingByUser(context.Context, string, time.Time, int) ([]*domain.CalendarEvent, error) {
	return nil, nil
}

type fakeMessageRepo struct {
	byKey map[string]*domain.DiscordMessage
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{byKey: make(map[string]*domain.DiscordMessage)}
}

func (r *fakeMessageRepo) Upsert(_ context.Context, message *domain.DiscordMessage) error {
	r.byKey[message.IntegrationID+"/"+message.MessageID] = message
	return nil
}

func (r *fakeMessageRepo) RecentByUser(context.Context, string, int) ([]*domain.DiscordMessage, error) {
	return nil, nil
}

func (r *fakeMessageRepo) MentionsByUser(context.Context, string, int) ([]*domain.DiscordMessage, error) {
	return nil, nil
}
