package usecase

import (
	"context"
	"time"

	"torch-backend/internal/integration/domain"
	"torch-backend/internal/integration/repository"
)

// Default page size for dashboard feed reads.
const feedLimit = 20

// FeedUsecase serves the dashboard's read side: previously synced entities,
// straight from the store, no provider calls.
type FeedUsecase interface {
	RecentEmails(ctx context.Context, userID string) ([]*domain.Email, error)
	UpcomingEvents(ctx context.Context, userID string) ([]*domain.CalendarEvent, error)
	RecentMessages(ctx context.Context, userID string, mentionsOnly bool) ([]*domain.DiscordMessage, error)
}

// feedUsecase implements FeedUsecase
type feedUsecase struct {
	emails   repository.EmailRepository
	events   repository.CalendarEventRepository
	messages repository.DiscordMessageRepository
	now      func() time.Time
}

// NewFeedUsecase creates a new instance of feedUsecase
func NewFeedUsecase(emails repository.EmailRepository, events repository.CalendarEventRepository, messages repository.DiscordMessageRepository) FeedUsecase {
	return &feedUsecase{
		emails:   emails,
		events:   events,
		messages: messages,
		now:      time.Now,
	}
}

func (u *feedUsecase) RecentEmails(ctx context.Context, userID string) ([]*domain.Email, error) {
	return u.emails.RecentByUser(ctx, userID, feedLimit)
}

func (u *feedUsecase) UpcomingEvents(ctx context.Context, userID string) ([]*domain.CalendarEvent, error) {
	return u.events.UpcomingByUser(ctx, userID, u.now(), feedLimit)
}

func (u *feedUsecase) RecentMessages(ctx context.Context, userID string, mentionsOnly bool) ([]*domain.DiscordMessage, error) {
	if mentionsOnly {
		return u.messages.MentionsByUser(ctx, userID, feedLimit)
	}
	return u.messages.RecentByUser(ctx, userID, feedLimit)
}
