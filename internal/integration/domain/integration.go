package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Service identifies a supported third-party provider.
type Service string

const (
	ServiceGmail          Service = "gmail"
	ServiceGoogleCalendar Service = "google_calendar"
	ServiceAppleCalendar  Service = "apple_calendar"
	ServiceDiscord        Service = "discord"
)

// ParseService validates a service name coming from the request path.
func ParseService(s string) (Service, error) {
	switch Service(s) {
	case ServiceGmail, ServiceGoogleCalendar, ServiceAppleCalendar, ServiceDiscord:
		return Service(s), nil
	}
	return "", ErrUnsupportedService
}

// Credentials is the per-integration OAuth credential blob stored as JSONB.
// ExpiresAt is an absolute expiry in epoch milliseconds. Provider-specific
// fields (Discord user id/username) ride along so mention matching does not
// need an extra provider call during sync.
type Credentials struct {
	AccessToken     string `json:"access_token"`
	RefreshToken    string `json:"refresh_token,omitempty"`
	ExpiresAt       int64  `json:"expires_at"`
	DiscordUserID   string `json:"discord_user_id,omitempty"`
	DiscordUsername string `json:"discord_username,omitempty"`
}

// Expired reports whether the access token must be refreshed before use.
func (c Credentials) Expired(now time.Time) bool {
	return now.UnixMilli() >= c.ExpiresAt
}

// SyncSettings controls how an integration is polled.
type SyncSettings struct {
	SyncFrequency string                 `json:"sync_frequency"`
	AutoSync      bool                   `json:"auto_sync"`
	Filters       map[string]interface{} `json:"filters"`
}

// DefaultSyncSettings is applied when an integration is first connected.
func DefaultSyncSettings() SyncSettings {
	return SyncSettings{
		SyncFrequency: "15m",
		AutoSync:      true,
		Filters:       map[string]interface{}{},
	}
}

// Integration is one user's authorized connection to an external service.
// At most one row exists per (user, service) pair; reconnecting overwrites
// the stored credentials instead of inserting a duplicate.
type Integration struct {
	ID           string                           `json:"id" gorm:"primaryKey"`
	UserID       string                           `json:"user_id" gorm:"uniqueIndex:idx_user_service;not null"`
	Service      Service                          `json:"service" gorm:"uniqueIndex:idx_user_service;not null"`
	Credentials  datatypes.JSONType[Credentials]  `json:"credentials"`
	IsActive     bool                             `json:"is_active" gorm:"default:true"`
	LastSync     *time.Time                       `json:"last_sync"`
	SyncSettings datatypes.JSONType[SyncSettings] `json:"sync_settings"`
	CreatedAt    time.Time                        `json:"created_at"`
	UpdatedAt    time.Time                        `json:"updated_at"`
}
