package repository

import (
	"context"
	"time"

	"torch-backend/internal/integration/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// calendarEventRepository implements CalendarEventRepository using GORM
type calendarEventRepository struct {
	db *gorm.DB
}

// NewCalendarEventRepository creates a new instance of calendarEventRepository
func NewCalendarEventRepository(db *gorm.DB) CalendarEventRepository {
	return &calendarEventRepository{db: db}
}

func (r *calendarEventRepository) Upsert(ctx context.Context, event *domain.CalendarEvent) error {
	now := time.Now()
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	event.CreatedAt = now
	event.UpdatedAt = now

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "integration_id"}, {Name: "event_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"title", "description", "start_time", "end_time", "location",
			"attendees", "status", "calendar_source", "metadata", "updated_at",
		}),
	}).Create(event).Error
}

func (r *calendarEventRepository) UpcomingByUser(ctx context.Context, userID string, from time.Time, limit int) ([]*domain.CalendarEvent, error) {
	var events []*domain.CalendarEvent
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND start_time >= ?", userID, from).
		Order("start_time ASC").
		Limit(limit).
		Find(&events).Error
	return events, err
}
