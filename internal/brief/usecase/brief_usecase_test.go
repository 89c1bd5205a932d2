package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	integrationdomain "torch-backend/internal/integration/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEmailRepo struct {
	emails []*integrationdomain.Email
	err    error
}

func (r *stubEmailRepo) Upsert(context.Context, *integrationdomain.Email) error { return nil }
func (r *stubEmailRepo) RecentByUser(context.Context, string, int) ([]*integrationdomain.Email, error) {
	return r.emails, r.err
}
func (r *stubEmailRepo) UnreadByUser(context.Context, string, int) ([]*integrationdomain.Email, error) {
	return r.emails, r.err
}

type stubEventRepo struct {
	events []*integrationdomain.CalendarEvent
}

func (r *stubEventRepo) Upsert(context.Context, *integrationdomain.CalendarEvent) error { return nil }
func (r *stubEventRepo) UpcomingByUser(context.Context, string, time.Time, int) ([]*integrationdomain.CalendarEvent, error) {
	return r.events, nil
}

type stubMessageRepo struct {
	messages []*integrationdomain.DiscordMessage
}

func (r *stubMessageRepo) Upsert(context.Context, *integrationdomain.DiscordMessage) error { return nil }
func (r *stubMessageRepo) RecentByUser(context.Context, string, int) ([]*integrationdomain.DiscordMessage, error) {
	return r.messages, nil
}
func (r *stubMessageRepo) MentionsByUser(context.Context, string, int) ([]*integrationdomain.DiscordMessage, error) {
	return r.messages, nil
}

type stubGenerator struct {
	configured bool
	text       string
	err        error
	prompt     string
}

func (g *stubGenerator) Configured() bool { return g.configured }
func (g *stubGenerator) GenerateText(_ context.Context, prompt string) (string, error) {
	g.prompt = prompt
	return g.text, g.err
}

func newBriefFixture(gen *stubGenerator) BriefUsecase {
	emails := &stubEmailRepo{emails: []*integrationdomain.Email{
		{Subject: "Quarterly numbers", FromAddress: "alice@example.com"},
	}}
	events := &stubEventRepo{events: []*integrationdomain.CalendarEvent{
		{Title: "Team standup", StartTime: time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)},
	}}
	messages := &stubMessageRepo{messages: []*integrationdomain.DiscordMessage{
		{AuthorName: "bob", ChannelName: "general", Content: "ping"},
	}}
	return NewBriefUsecase(emails, events, messages, gen, zerolog.Nop())
}

func TestGenerateUsesAIWhenConfigured(t *testing.T) {
	gen := &stubGenerator{configured: true, text: "  Busy day ahead.\n"}
	uc := newBriefFixture(gen)

	brief, err := uc.Generate(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "Busy day ahead.", brief.Brief)
	assert.NotEmpty(t, brief.Greeting)

	// The prompt carries the synced context for the model.
	assert.Contains(t, gen.prompt, "Quarterly numbers")
	assert.Contains(t, gen.prompt, "Team standup")
	assert.Contains(t, gen.prompt, "bob in general")
	assert.Contains(t, gen.prompt, "Ecosystem news:")
}

func TestGenerateFallsBackWithoutAPIKey(t *testing.T) {
	gen := &stubGenerator{configured: false}
	uc := newBriefFixture(gen)

	brief, err := uc.Generate(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "You have 1 unread emails, 1 upcoming events, and 1 Discord mentions today.", brief.Brief)
	assert.Empty(t, gen.prompt, "no model call happens without an API key")
}

func TestGenerateFallsBackOnModelFailure(t *testing.T) {
	gen := &stubGenerator{configured: true, err: errors.New("quota exceeded")}
	uc := newBriefFixture(gen)

	brief, err := uc.Generate(context.Background(), "user-1")
	require.NoError(t, err, "a model failure degrades, it does not fail the request")
	assert.Contains(t, brief.Brief, "1 unread emails")
}

func TestGenerateToleratesFailingSource(t *testing.T) {
	gen := &stubGenerator{configured: false}
	uc := NewBriefUsecase(
		&stubEmailRepo{err: errors.New("db down")},
		&stubEventRepo{},
		&stubMessageRepo{},
		gen,
		zerolog.Nop(),
	)

	brief, err := uc.Generate(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "You have 0 unread emails, 0 upcoming events, and 0 Discord mentions today.", brief.Brief)
}
