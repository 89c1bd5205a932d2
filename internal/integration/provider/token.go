package provider

import (
	"context"
	"fmt"
	"time"

	"torch-backend/internal/integration/domain"
	"torch-backend/internal/integration/repository"

	"golang.org/x/oauth2"
	"gorm.io/datatypes"
)

// TokenManager hands out a currently-valid access token for an integration,
// refreshing against the provider's token endpoint first when the stored
// expiry has passed. The refreshed access token and expiry are merged into
// the stored credential blob; every other sub-field is preserved.
type TokenManager struct {
	oauth        *oauth2.Config
	integrations repository.IntegrationRepository
	now          func() time.Time
}

// NewTokenManager creates a token manager bound to one provider's OAuth
// configuration.
func NewTokenManager(oauth *oauth2.Config, integrations repository.IntegrationRepository) *TokenManager {
	return &TokenManager{
		oauth:        oauth,
		integrations: integrations,
		now:          time.Now,
	}
}

// Ensure returns a valid access token for the integration. The refreshed
// credentials are persisted and also written back onto the in-memory
// integration so every later call in the same invocation uses the new token.
func (m *TokenManager) Ensure(ctx context.Context, integration *domain.Integration) (string, error) {
	creds := integration.Credentials.Data()
	if !creds.Expired(m.now()) {
		return creds.AccessToken, nil
	}

	stale := &oauth2.Token{
		AccessToken:  creds.AccessToken,
		RefreshToken: creds.RefreshToken,
		Expiry:       time.UnixMilli(creds.ExpiresAt),
	}
	fresh, err := m.oauth.TokenSource(ctx, stale).Token()
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrTokenRefreshFailed, err)
	}

	creds.AccessToken = fresh.AccessToken
	creds.ExpiresAt = fresh.Expiry.UnixMilli()
	if fresh.RefreshToken != "" {
		creds.RefreshToken = fresh.RefreshToken
	}

	if err := m.integrations.UpdateCredentials(ctx, integration.ID, creds); err != nil {
		return "", fmt.Errorf("persist refreshed credentials: %w", err)
	}
	integration.Credentials = datatypes.NewJSONType(creds)

	return creds.AccessToken, nil
}
