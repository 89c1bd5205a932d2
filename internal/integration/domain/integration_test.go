package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseService(t *testing.T) {
	for _, name := range []string{"gmail", "google_calendar", "apple_calendar", "discord"} {
		svc, err := ParseService(name)
		assert.NoError(t, err)
		assert.Equal(t, Service(name), svc)
	}

	_, err := ParseService("slack")
	assert.ErrorIs(t, err, ErrUnsupportedService)
}

func TestCredentialsExpired(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	assert.False(t, Credentials{ExpiresAt: now.Add(time.Minute).UnixMilli()}.Expired(now))
	assert.True(t, Credentials{ExpiresAt: now.Add(-time.Minute).UnixMilli()}.Expired(now))
	// The boundary counts as expired so a token is never used in its last
	// millisecond.
	assert.True(t, Credentials{ExpiresAt: now.UnixMilli()}.Expired(now))
}
