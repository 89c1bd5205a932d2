package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	briefdomain "torch-backend/internal/brief/domain"
	integrationdomain "torch-backend/internal/integration/domain"
	"torch-backend/internal/integration/repository"
	"torch-backend/pkg/news"

	"github.com/rs/zerolog"
)

// Top-N cutoffs for each synced source fed into the prompt.
const briefItemLimit = 5

// TextGenerator produces free-form text from a prompt. Satisfied by the
// gemini service; fakes stand in for it in tests.
type TextGenerator interface {
	Configured() bool
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// BriefUsecase assembles the daily brief from previously synced data.
type BriefUsecase interface {
	Generate(ctx context.Context, userID string) (*briefdomain.DailyBrief, error)
}

// briefUsecase implements BriefUsecase
type briefUsecase struct {
	emails   repository.EmailRepository
	events   repository.CalendarEventRepository
	messages repository.DiscordMessageRepository
	ai       TextGenerator
	log      zerolog.Logger
	now      func() time.Time
}

// NewBriefUsecase creates a new instance of briefUsecase
func NewBriefUsecase(emails repository.EmailRepository, events repository.CalendarEventRepository, messages repository.DiscordMessageRepository, ai TextGenerator, log zerolog.Logger) BriefUsecase {
	return &briefUsecase{
		emails:   emails,
		events:   events,
		messages: messages,
		ai:       ai,
		log:      log.With().Str("component", "brief").Logger(),
		now:      time.Now,
	}
}

// Generate reads only from the local store; no provider API is called. A
// failing source degrades to empty, and an unavailable AI backend degrades
// to a static count summary.
func (u *briefUsecase) Generate(ctx context.Context, userID string) (*briefdomain.DailyBrief, error) {
	now := u.now()

	emails, err := u.emails.UnreadByUser(ctx, userID, briefItemLimit)
	if err != nil {
		u.log.Warn().Err(err).Str("user_id", userID).Msg("unread email lookup failed")
		emails = nil
	}
	events, err := u.events.UpcomingByUser(ctx, userID, now, briefItemLimit)
	if err != nil {
		u.log.Warn().Err(err).Str("user_id", userID).Msg("upcoming event lookup failed")
		events = nil
	}
	mentions, err := u.messages.MentionsByUser(ctx, userID, briefItemLimit)
	if err != nil {
		u.log.Warn().Err(err).Str("user_id", userID).Msg("discord mention lookup failed")
		mentions = nil
	}

	brief := &briefdomain.DailyBrief{
		Greeting:    news.Greeting(now),
		GeneratedAt: now,
	}

	if !u.ai.Configured() {
		brief.Brief = countSummary(len(emails), len(events), len(mentions))
		return brief, nil
	}

	text, err := u.ai.GenerateText(ctx, buildPrompt(emails, events, mentions, news.Fetch(now)))
	if err != nil {
		u.log.Warn().Err(err).Str("user_id", userID).Msg("brief generation failed")
		brief.Brief = countSummary(len(emails), len(events), len(mentions))
		return brief, nil
	}
	brief.Brief = strings.TrimSpace(text)
	return brief, nil
}

func countSummary(emailCount, eventCount, mentionCount int) string {
	return fmt.Sprintf("You have %d unread emails, %d upcoming events, and %d Discord mentions today.",
		emailCount, eventCount, mentionCount)
}

func buildPrompt(emails []*integrationdomain.Email, events []*integrationdomain.CalendarEvent, mentions []*integrationdomain.DiscordMessage, articles []news.Article) string {
	var b strings.Builder
	b.WriteString("You are a personal dashboard assistant. Write a concise, friendly daily brief (3-5 sentences) for the user based on the following data. Mention the most important items first and skip empty sections.\n\n")

	fmt.Fprintf(&b, "Unread emails (%d):\n", len(emails))
	for _, e := range emails {
		fmt.Fprintf(&b, "- %q from %s\n", e.Subject, e.FromAddress)
	}

	fmt.Fprintf(&b, "\nUpcoming events (%d):\n", len(events))
	for _, ev := range events {
		fmt.Fprintf(&b, "- %s at %s\n", ev.Title, ev.StartTime.Format(time.RFC1123))
	}

	fmt.Fprintf(&b, "\nDiscord mentions (%d):\n", len(mentions))
	for _, m := range mentions {
		content := m.Content
		if len(content) > 100 {
			content = content[:100]
		}
		fmt.Fprintf(&b, "- %s in %s: %s\n", m.AuthorName, m.ChannelName, content)
	}

	b.WriteString("\nEcosystem news:\n")
	b.WriteString(news.FormatForSummary(articles))
	return b.String()
}
