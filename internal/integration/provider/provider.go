// Package provider implements the per-service sync adapters. Each provider
// knows how to build its OAuth authorization URL, exchange a callback code
// for an integration, and run one idempotent fetch-and-upsert sync pass.
package provider

import (
	"context"

	"torch-backend/internal/integration/domain"
)

// Provider is the capability contract every sync adapter implements.
type Provider interface {
	Service() domain.Service
	AuthURL() (string, error)
	// ExchangeCode trades an authorization code for tokens and stores the
	// resulting integration. source is only meaningful for calendar flows.
	ExchangeCode(ctx context.Context, code, userID, source string) (*domain.Integration, error)
	// Sync runs one best-effort pull pass and returns the number of items
	// upserted. Partial item failures are skipped, not fatal.
	Sync(ctx context.Context, integration *domain.Integration) (int, error)
}

// Registry resolves a service name to its provider.
type Registry struct {
	providers map[domain.Service]Provider
}

// NewRegistry builds a registry from the given providers.
func NewRegistry(providers ...Provider) *Registry {
	m := make(map[domain.Service]Provider, len(providers))
	for _, p := range providers {
		m[p.Service()] = p
	}
	return &Registry{providers: m}
}

// Lookup returns the provider for a service, failing fast before any network
// call when the service has no adapter.
func (r *Registry) Lookup(service domain.Service) (Provider, error) {
	p, ok := r.providers[service]
	if !ok {
		return nil, domain.ErrUnsupportedService
	}
	return p, nil
}
