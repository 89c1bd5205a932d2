package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"torch-backend/internal/integration/domain"
	"torch-backend/pkg/config"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalendarExchangeCodeRejectsUnknownSource(t *testing.T) {
	p := NewCalendarProvider(&config.Config{
		GoogleClientID:      "client",
		GoogleClientSecret:  "secret",
		CalendarRedirectURI: "http://localhost/callback",
	}, newFakeIntegrationRepo(), newFakeEventRepo(), zerolog.Nop())

	_, err := p.ExchangeCode(context.Background(), "code", "user-1", "apple")
	assert.ErrorIs(t, err, domain.ErrUnsupportedCalendarSource)
}

func TestCalendarSyncSkipsEventsWithoutTimes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/calendars/primary/events") {
			http.NotFound(w, r)
			return
		}
		assert.Equal(t, "true", r.URL.Query().Get("singleEvents"))
		assert.Equal(t, "startTime", r.URL.Query().Get("orderBy"))
		assert.Equal(t, "100", r.URL.Query().Get("maxResults"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"items": [
			{
				"id": "ev1",
				"summary": "Team standup",
				"status": "confirmed",
				"location": "Room 4",
				"start": {"dateTime": "2025-06-02T09:00:00Z"},
				"end": {"dateTime": "2025-06-02T09:30:00Z"},
				"attendees": [{"email": "alice@example.com", "displayName": "Alice"}],
				"htmlLink": "https://calendar.google.com/ev1"
			},
			{
				"id": "ev2",
				"summary": "Broken event",
				"start": {"dateTime": "2025-06-03T09:00:00Z"}
			},
			{
				"id": "ev3",
				"start": {"date": "2025-06-04"},
				"end": {"date": "2025-06-05"}
			}
		]}`))
	}))
	defer srv.Close()

	repo := newFakeIntegrationRepo()
	events := newFakeEventRepo()
	p := NewCalendarProvider(&config.Config{
		GoogleClientID:      "client",
		GoogleClientSecret:  "secret",
		CalendarRedirectURI: "http://localhost/callback",
	}, repo, events, zerolog.Nop())
	p.apiBase = srv.URL

	integration := testIntegration(domain.Credentials{
		AccessToken: "valid-token",
		ExpiresAt:   time.Now().Add(time.Hour).UnixMilli(),
	})

	synced, err := p.Sync(context.Background(), integration)
	require.NoError(t, err)
	assert.Equal(t, 2, synced, "the event with no end time is skipped")

	ev1, ok := events.byKey["int-1/ev1"]
	require.True(t, ok)
	assert.Equal(t, "Team standup", ev1.Title)
	assert.Equal(t, "Room 4", ev1.Location)
	assert.Equal(t, "google", ev1.CalendarSource)
	require.Len(t, ev1.Attendees, 1)
	assert.Equal(t, "alice@example.com", ev1.Attendees[0].Email)
	assert.Equal(t, "https://calendar.google.com/ev1", ev1.Metadata["html_link"])

	// All-day events resolve via the date form and get the defaults.
	ev3, ok := events.byKey["int-1/ev3"]
	require.True(t, ok)
	assert.Equal(t, "Untitled Event", ev3.Title)
	assert.Equal(t, "confirmed", ev3.Status)
	assert.Equal(t, time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC), ev3.StartTime)

	_, ok = events.byKey["int-1/ev2"]
	assert.False(t, ok)
}
