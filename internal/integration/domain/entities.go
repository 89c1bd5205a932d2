package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Email is one Gmail message pulled by a sync run. Uniqueness is enforced on
// (integration_id, message_id) so repeated syncs update in place. UserID is
// denormalized from the owning integration so dashboard reads skip the join.
type Email struct {
	ID            string                      `json:"id" gorm:"primaryKey"`
	UserID        string                      `json:"user_id" gorm:"index;not null"`
	IntegrationID string                      `json:"integration_id" gorm:"uniqueIndex:idx_integration_message;not null"`
	MessageID     string                      `json:"message_id" gorm:"uniqueIndex:idx_integration_message;not null"`
	ThreadID      string                      `json:"thread_id,omitempty"`
	Subject       string                      `json:"subject"`
	FromAddress   string                      `json:"from_address"`
	ToAddresses   datatypes.JSONSlice[string] `json:"to_addresses"`
	CcAddresses   datatypes.JSONSlice[string] `json:"cc_addresses"`
	BodyPreview   string                      `json:"body_preview,omitempty"`
	IsRead        bool                        `json:"is_read"`
	IsImportant   bool                        `json:"is_important"`
	Labels        datatypes.JSONSlice[string] `json:"labels"`
	ReceivedAt    time.Time                   `json:"received_at"`
	CreatedAt     time.Time                   `json:"created_at"`
	UpdatedAt     time.Time                   `json:"updated_at"`
}

// Attendee is one calendar event participant.
type Attendee struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// CalendarEvent is one upcoming event pulled from a calendar provider.
// Keyed by (integration_id, event_id) for idempotent upserts.
type CalendarEvent struct {
	ID             string                        `json:"id" gorm:"primaryKey"`
	UserID         string                        `json:"user_id" gorm:"index;not null"`
	IntegrationID  string                        `json:"integration_id" gorm:"uniqueIndex:idx_integration_event;not null"`
	EventID        string                        `json:"event_id" gorm:"uniqueIndex:idx_integration_event;not null"`
	Title          string                        `json:"title"`
	Description    string                        `json:"description,omitempty"`
	StartTime      time.Time                     `json:"start_time"`
	EndTime        time.Time                     `json:"end_time"`
	Location       string                        `json:"location,omitempty"`
	Attendees      datatypes.JSONSlice[Attendee] `json:"attendees"`
	Status         string                        `json:"status"`
	CalendarSource string                        `json:"calendar_source"`
	Metadata       datatypes.JSONMap             `json:"metadata"`
	CreatedAt      time.Time                     `json:"created_at"`
	UpdatedAt      time.Time                     `json:"updated_at"`
}

// MessageAttachment is a Discord attachment reference kept on the message row.
type MessageAttachment struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

// DiscordMessage is one message pulled from a guild channel or DM channel.
// Keyed by (integration_id, message_id).
type DiscordMessage struct {
	ID              string                                      `json:"id" gorm:"primaryKey"`
	UserID          string                                      `json:"user_id" gorm:"index;not null"`
	IntegrationID   string                                      `json:"integration_id" gorm:"uniqueIndex:idx_integration_discord;not null"`
	MessageID       string                                      `json:"message_id" gorm:"uniqueIndex:idx_integration_discord;not null"`
	ChannelID       string                                      `json:"channel_id"`
	ChannelName     string                                      `json:"channel_name,omitempty"`
	ServerID        string                                      `json:"server_id,omitempty"`
	ServerName      string                                      `json:"server_name,omitempty"`
	AuthorID        string                                      `json:"author_id"`
	AuthorName      string                                      `json:"author_name,omitempty"`
	Content         string                                      `json:"content"`
	MentionsUser    bool                                        `json:"mentions_user"`
	IsDirectMessage bool                                        `json:"is_direct_message"`
	Attachments     datatypes.JSONSlice[MessageAttachment]      `json:"attachments"`
	Embeds          datatypes.JSONSlice[map[string]interface{}] `json:"embeds"`
	PostedAt        time.Time                                   `json:"posted_at"`
	CreatedAt       time.Time                                   `json:"created_at"`
	UpdatedAt       time.Time                                   `json:"updated_at"`
}
