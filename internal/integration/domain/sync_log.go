package domain

import "time"

// SyncStatus is the outcome of one sync run.
type SyncStatus string

const (
	SyncStatusSuccess SyncStatus = "success"
	SyncStatusFailure SyncStatus = "failure"
)

// SyncLogEntry is an append-only record of one sync attempt, written for
// every run including failures. Never mutated by the pipeline.
type SyncLogEntry struct {
	ID            string     `json:"id" gorm:"primaryKey"`
	IntegrationID string     `json:"integration_id" gorm:"index;not null"`
	SyncStart     time.Time  `json:"sync_start"`
	SyncEnd       time.Time  `json:"sync_end"`
	Status        SyncStatus `json:"status"`
	ItemsSynced   int        `json:"items_synced"`
	Error         string     `json:"error,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// SyncLease is a short-lived mutual-exclusion row acquired before a sync run
// and released after. A lease whose expiry has passed is considered stale and
// may be reclaimed by a new holder, which covers crashed invocations.
type SyncLease struct {
	IntegrationID string    `json:"integration_id" gorm:"primaryKey"`
	Holder        string    `json:"holder" gorm:"not null"`
	ExpiresAt     time.Time `json:"expires_at" gorm:"not null"`
}
