package dto

import "torch-backend/internal/integration/domain"

// CallbackRequest is the OAuth callback body. Source selects the calendar
// flavor (google or apple) and is ignored by other providers.
type CallbackRequest struct {
	Code   string `json:"code" binding:"required"`
	UserID string `json:"userId" binding:"required"`
	Source string `json:"source"`
}

// SyncRequest triggers one sync run for an integration.
type SyncRequest struct {
	IntegrationID string `json:"integrationId" binding:"required"`
}

type AuthURLResponse struct {
	AuthURL string `json:"authUrl"`
}

type CallbackResponse struct {
	Success     bool                `json:"success"`
	Integration *domain.Integration `json:"integration"`
}

type SyncResponse struct {
	Success bool `json:"success"`
	Synced  int  `json:"synced"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
