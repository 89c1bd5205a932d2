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
	"golang.org/x/oauth2"
)

func newGmailProviderForTest(t *testing.T, apiBase string, repo *fakeIntegrationRepo, emails *fakeEmailRepo) *GmailProvider {
	t.Helper()
	p := NewGmailProvider(&config.Config{
		GoogleClientID:     "client",
		GoogleClientSecret: "secret",
		GmailRedirectURI:   "http://localhost/callback",
	}, repo, emails, zerolog.Nop())
	p.apiBase = apiBase
	return p
}

func TestGmailAuthURL(t *testing.T) {
	p := newGmailProviderForTest(t, "", newFakeIntegrationRepo(), newFakeEmailRepo())

	url, err := p.AuthURL()
	require.NoError(t, err)
	assert.Contains(t, url, "access_type=offline")
	assert.Contains(t, url, "prompt=consent")
	assert.Contains(t, url, "client_id=client")
}

func TestGmailAuthURLMissingConfig(t *testing.T) {
	p := NewGmailProvider(&config.Config{}, newFakeIntegrationRepo(), newFakeEmailRepo(), zerolog.Nop())

	_, err := p.AuthURL()
	assert.ErrorIs(t, err, domain.ErrMissingOAuthConfig)
}

func TestGmailReconnectKeepsIntegrationID(t *testing.T) {
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"at-` + r.FormValue("code") + `","refresh_token":"rt","expires_in":3600,"token_type":"Bearer"}`))
	}))
	defer tokenSrv.Close()

	repo := newFakeIntegrationRepo()
	p := newGmailProviderForTest(t, "", repo, newFakeEmailRepo())
	p.oauth.Endpoint = oauth2.Endpoint{TokenURL: tokenSrv.URL, AuthStyle: oauth2.AuthStyleInParams}

	first, err := p.ExchangeCode(context.Background(), "code-1", "user-1", "")
	require.NoError(t, err)
	require.NotEmpty(t, first.ID)

	// Connecting the same service again replaces credentials on the
	// existing row; the returned id must be the stored one.
	second, err := p.ExchangeCode(context.Background(), "code-2", "user-1", "")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	stored, err := repo.FindByID(context.Background(), second.ID)
	require.NoError(t, err)
	assert.Equal(t, "at-code-2", stored.Credentials.Data().AccessToken)
}

func TestGmailSyncSkipsFailingMessages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasSuffix(r.URL.Path, "/users/me/messages"):
			assert.Equal(t, "is:unread OR is:important", r.URL.Query().Get("q"))
			assert.Equal(t, "50", r.URL.Query().Get("maxResults"))
			w.Write([]byte(`{"messages":[{"id":"m1"},{"id":"m2"},{"id":"m3"}]}`))
		case strings.HasSuffix(r.URL.Path, "/users/me/messages/m2"):
			http.Error(w, "boom", http.StatusInternalServerError)
		case strings.HasSuffix(r.URL.Path, "/users/me/messages/m1"):
			w.Write([]byte(`{
				"id": "m1",
				"threadId": "t1",
				"snippet": "hello there",
				"internalDate": "1696000000000",
				"labelIds": ["UNREAD", "IMPORTANT", "INBOX"],
				"payload": {"headers": [
					{"name": "Subject", "value": "Quarterly numbers"},
					{"name": "From", "value": "alice@example.com"},
					{"name": "To", "value": "bob@example.com, carol@example.com"},
					{"name": "date", "value": "Mon, 02 Oct 2023 10:00:00 +0000"}
				]}
			}`))
		case strings.HasSuffix(r.URL.Path, "/users/me/messages/m3"):
			w.Write([]byte(`{
				"id": "m3",
				"threadId": "t3",
				"snippet": "read me",
				"internalDate": "1696000001000",
				"labelIds": ["IMPORTANT"],
				"payload": {"headers": [
					{"name": "Subject", "value": "FYI"},
					{"name": "From", "value": "dave@example.com"}
				]}
			}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	repo := newFakeIntegrationRepo()
	emails := newFakeEmailRepo()
	p := newGmailProviderForTest(t, srv.URL, repo, emails)

	integration := testIntegration(domain.Credentials{
		AccessToken: "valid-token",
		ExpiresAt:   time.Now().Add(time.Hour).UnixMilli(),
	})

	synced, err := p.Sync(context.Background(), integration)
	require.NoError(t, err)
	assert.Equal(t, 2, synced, "the failing message is skipped, not fatal")

	m1, ok := emails.byKey["int-1/m1"]
	require.True(t, ok)
	assert.Equal(t, "Quarterly numbers", m1.Subject)
	assert.Equal(t, "alice@example.com", m1.FromAddress)
	assert.Equal(t, []string{"bob@example.com", "carol@example.com"}, []string(m1.ToAddresses))
	assert.False(t, m1.IsRead)
	assert.True(t, m1.IsImportant)
	assert.Equal(t, "hello there", m1.BodyPreview)
	// Header name matching is case-insensitive; the Date header wins over
	// internalDate.
	assert.Equal(t, time.Date(2023, 10, 2, 10, 0, 0, 0, time.UTC).Unix(), m1.ReceivedAt.Unix())

	m3, ok := emails.byKey["int-1/m3"]
	require.True(t, ok)
	assert.True(t, m3.IsRead, "no UNREAD label means read")
	// No Date header: fall back to internalDate.
	assert.Equal(t, time.UnixMilli(1696000001000).Unix(), m3.ReceivedAt.Unix())

	_, ok = emails.byKey["int-1/m2"]
	assert.False(t, ok)
}

func TestGmailSyncTwiceUpsertsNotDuplicates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasSuffix(r.URL.Path, "/users/me/messages"):
			w.Write([]byte(`{"messages":[{"id":"m1"},{"id":"m2"}]}`))
		case strings.HasSuffix(r.URL.Path, "/users/me/messages/m1"):
			w.Write([]byte(`{"id":"m1","threadId":"t1","snippet":"one","internalDate":"1696000000000","labelIds":["UNREAD"]}`))
		case strings.HasSuffix(r.URL.Path, "/users/me/messages/m2"):
			w.Write([]byte(`{"id":"m2","threadId":"t2","snippet":"two","internalDate":"1696000001000","labelIds":[]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	emails := newFakeEmailRepo()
	p := newGmailProviderForTest(t, srv.URL, newFakeIntegrationRepo(), emails)

	integration := testIntegration(domain.Credentials{
		AccessToken: "valid-token",
		ExpiresAt:   time.Now().Add(time.Hour).UnixMilli(),
	})

	first, err := p.Sync(context.Background(), integration)
	require.NoError(t, err)
	second, err := p.Sync(context.Background(), integration)
	require.NoError(t, err)

	// Re-running against unchanged upstream data reports the same count
	// and overwrites the same rows instead of adding new ones.
	assert.Equal(t, first, second)
	assert.Len(t, emails.byKey, 2)
}
