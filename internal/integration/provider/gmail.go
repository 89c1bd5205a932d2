package provider

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"torch-backend/internal/integration/domain"
	"torch-backend/internal/integration/repository"
	"torch-backend/pkg/config"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
	"gorm.io/datatypes"
)

// gmailQuery selects the messages worth surfacing on the dashboard.
const gmailQuery = "is:unread OR is:important"

const gmailMaxMessages = 50

// GmailProvider syncs unread/important Gmail messages into the emails table.
type GmailProvider struct {
	oauth        *oauth2.Config
	tokens       *TokenManager
	integrations repository.IntegrationRepository
	emails       repository.EmailRepository
	log          zerolog.Logger

	// apiBase overrides the Gmail API endpoint in tests.
	apiBase string
}

// NewGmailProvider creates the Gmail sync adapter.
func NewGmailProvider(cfg *config.Config, integrations repository.IntegrationRepository, emails repository.EmailRepository, log zerolog.Logger) *GmailProvider {
	oc := &oauth2.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GmailRedirectURI,
		Scopes:       []string{gmail.GmailReadonlyScope},
		Endpoint:     google.Endpoint,
	}
	return &GmailProvider{
		oauth:        oc,
		tokens:       NewTokenManager(oc, integrations),
		integrations: integrations,
		emails:       emails,
		log:          log.With().Str("provider", "gmail").Logger(),
	}
}

func (p *GmailProvider) Service() domain.Service { return domain.ServiceGmail }

// AuthURL builds the consent URL. access_type=offline plus prompt=consent
// guarantees a refresh token is issued even on re-consent.
func (p *GmailProvider) AuthURL() (string, error) {
	if p.oauth.ClientID == "" || p.oauth.RedirectURL == "" {
		return "", domain.ErrMissingOAuthConfig
	}
	return p.oauth.AuthCodeURL("",
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	), nil
}

func (p *GmailProvider) ExchangeCode(ctx context.Context, code, userID, _ string) (*domain.Integration, error) {
	if p.oauth.ClientID == "" || p.oauth.ClientSecret == "" || p.oauth.RedirectURL == "" {
		return nil, domain.ErrMissingOAuthConfig
	}

	token, err := p.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCodeExchangeFailed, err)
	}

	integration := &domain.Integration{
		UserID:  userID,
		Service: domain.ServiceGmail,
		Credentials: datatypes.NewJSONType(domain.Credentials{
			AccessToken:  token.AccessToken,
			RefreshToken: token.RefreshToken,
			ExpiresAt:    token.Expiry.UnixMilli(),
		}),
		IsActive:     true,
		SyncSettings: datatypes.NewJSONType(domain.DefaultSyncSettings()),
	}
	if err := p.integrations.Upsert(ctx, integration); err != nil {
		return nil, err
	}
	return integration, nil
}

// Sync lists matching message ids and upserts the detail of each one. A
// failed detail fetch or upsert skips that message only; the run completes
// with whatever count succeeded.
func (p *GmailProvider) Sync(ctx context.Context, integration *domain.Integration) (int, error) {
	accessToken, err := p.tokens.Ensure(ctx, integration)
	if err != nil {
		return 0, err
	}

	srv, err := gmail.NewService(ctx, p.apiOptions(accessToken)...)
	if err != nil {
		return 0, fmt.Errorf("create gmail client: %w", err)
	}

	list, err := srv.Users.Messages.List("me").
		Q(gmailQuery).
		MaxResults(gmailMaxMessages).
		Context(ctx).
		Do()
	if err != nil {
		return 0, fmt.Errorf("list messages: %w", err)
	}

	synced := 0
	for _, ref := range list.Messages {
		detail, err := srv.Users.Messages.Get("me", ref.Id).Format("full").Context(ctx).Do()
		if err != nil {
			p.log.Warn().Err(err).Str("message_id", ref.Id).Msg("skipping message: detail fetch failed")
			continue
		}

		email := p.emailFromMessage(integration, detail)
		if err := p.emails.Upsert(ctx, email); err != nil {
			p.log.Warn().Err(err).Str("message_id", ref.Id).Msg("skipping message: upsert failed")
			continue
		}
		synced++
	}

	return synced, nil
}

func (p *GmailProvider) apiOptions(accessToken string) []option.ClientOption {
	opts := []option.ClientOption{
		option.WithTokenSource(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})),
	}
	if p.apiBase != "" {
		opts = append(opts, option.WithEndpoint(p.apiBase))
	}
	return opts
}

func (p *GmailProvider) emailFromMessage(integration *domain.Integration, msg *gmail.Message) *domain.Email {
	var headers []*gmail.MessagePartHeader
	if msg.Payload != nil {
		headers = msg.Payload.Headers
	}

	labels := msg.LabelIds
	if labels == nil {
		labels = []string{}
	}

	return &domain.Email{
		UserID:        integration.UserID,
		IntegrationID: integration.ID,
		MessageID:     msg.Id,
		ThreadID:      msg.ThreadId,
		Subject:       headerValue(headers, "Subject"),
		FromAddress:   headerValue(headers, "From"),
		ToAddresses:   splitAddresses(headerValue(headers, "To")),
		CcAddresses:   splitAddresses(headerValue(headers, "Cc")),
		BodyPreview:   msg.Snippet,
		IsRead:        !hasLabel(labels, "UNREAD"),
		IsImportant:   hasLabel(labels, "IMPORTANT"),
		Labels:        labels,
		ReceivedAt:    receivedAt(headerValue(headers, "Date"), msg.InternalDate),
	}
}

// headerValue matches header names case-insensitively.
func headerValue(headers []*gmail.MessagePartHeader, name string) string {
	for _, h := range headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value
		}
	}
	return ""
}

func splitAddresses(raw string) []string {
	parts := strings.Split(raw, ",")
	addresses := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			addresses = append(addresses, trimmed)
		}
	}
	return addresses
}

func hasLabel(labels []string, label string) bool {
	for _, l := range labels {
		if l == label {
			return true
		}
	}
	return false
}

// receivedAt prefers the RFC 5322 Date header and falls back to the
// provider's internal timestamp.
func receivedAt(dateHeader string, internalDate int64) time.Time {
	if dateHeader != "" {
		if t, err := mail.ParseDate(dateHeader); err == nil {
			return t
		}
	}
	return time.UnixMilli(internalDate)
}
