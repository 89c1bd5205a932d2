package provider

import (
	"context"
	"fmt"

	"torch-backend/internal/integration/domain"
	"torch-backend/internal/integration/repository"
	"torch-backend/pkg/config"
	"torch-backend/pkg/discord"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"gorm.io/datatypes"
)

const (
	discordMaxGuildChannels = 5
	discordMaxDMChannels    = 10
	discordMessagesPerFetch = 20
)

// DiscordProvider syncs guild-channel and DM messages. Guild channel and
// message listing uses the bot token; guild membership, DM channels and DM
// messages use the user's OAuth token.
type DiscordProvider struct {
	oauth        *oauth2.Config
	tokens       *TokenManager
	client       *discord.Client
	botToken     string
	integrations repository.IntegrationRepository
	messages     repository.DiscordMessageRepository
	log          zerolog.Logger
}

// NewDiscordProvider creates the Discord sync adapter.
func NewDiscordProvider(cfg *config.Config, client *discord.Client, integrations repository.IntegrationRepository, messages repository.DiscordMessageRepository, log zerolog.Logger) *DiscordProvider {
	oc := &oauth2.Config{
		ClientID:     cfg.DiscordClientID,
		ClientSecret: cfg.DiscordClientSecret,
		RedirectURL:  cfg.DiscordRedirectURI,
		Scopes:       []string{"identify", "guilds", "messages.read"},
		Endpoint: oauth2.Endpoint{
			AuthURL:   cfg.DiscordAPIURL + "/oauth2/authorize",
			TokenURL:  cfg.DiscordAPIURL + "/oauth2/token",
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
	return &DiscordProvider{
		oauth:        oc,
		tokens:       NewTokenManager(oc, integrations),
		client:       client,
		botToken:     cfg.DiscordBotToken,
		integrations: integrations,
		messages:     messages,
		log:          log.With().Str("provider", "discord").Logger(),
	}
}

func (p *DiscordProvider) Service() domain.Service { return domain.ServiceDiscord }

func (p *DiscordProvider) AuthURL() (string, error) {
	if p.oauth.ClientID == "" || p.oauth.RedirectURL == "" {
		return "", domain.ErrMissingOAuthConfig
	}
	return p.oauth.AuthCodeURL(""), nil
}

// ExchangeCode also resolves the authenticated Discord user so later syncs
// can match mentions without an extra call. A failed user lookup degrades to
// empty identity fields rather than failing the callback.
func (p *DiscordProvider) ExchangeCode(ctx context.Context, code, userID, _ string) (*domain.Integration, error) {
	if p.oauth.ClientID == "" || p.oauth.ClientSecret == "" || p.oauth.RedirectURL == "" {
		return nil, domain.ErrMissingOAuthConfig
	}

	token, err := p.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCodeExchangeFailed, err)
	}

	creds := domain.Credentials{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    token.Expiry.UnixMilli(),
	}
	if user, err := p.client.CurrentUser(ctx, token.AccessToken); err != nil {
		p.log.Warn().Err(err).Msg("could not resolve discord user identity")
	} else {
		creds.DiscordUserID = user.ID
		creds.DiscordUsername = user.Username
	}

	integration := &domain.Integration{
		UserID:       userID,
		Service:      domain.ServiceDiscord,
		Credentials:  datatypes.NewJSONType(creds),
		IsActive:     true,
		SyncSettings: datatypes.NewJSONType(domain.DefaultSyncSettings()),
	}
	if err := p.integrations.Upsert(ctx, integration); err != nil {
		return nil, err
	}
	return integration, nil
}

// Sync walks the user's guilds, then their DM channels. A failing guild,
// channel or message upsert is logged and skipped; siblings still run.
func (p *DiscordProvider) Sync(ctx context.Context, integration *domain.Integration) (int, error) {
	accessToken, err := p.tokens.Ensure(ctx, integration)
	if err != nil {
		return 0, err
	}
	discordUserID := integration.Credentials.Data().DiscordUserID

	guilds, err := p.client.UserGuilds(ctx, accessToken)
	if err != nil {
		return 0, fmt.Errorf("list guilds: %w", err)
	}

	synced := 0
	for _, guild := range guilds {
		channels, err := p.client.GuildChannels(ctx, p.botToken, guild.ID)
		if err != nil {
			p.log.Warn().Err(err).Str("guild_id", guild.ID).Msg("skipping guild: channel listing failed")
			continue
		}

		textChannels := make([]discord.Channel, 0, len(channels))
		for _, ch := range channels {
			if ch.Type == discord.ChannelTypeGuildText {
				textChannels = append(textChannels, ch)
			}
		}
		if len(textChannels) > discordMaxGuildChannels {
			textChannels = textChannels[:discordMaxGuildChannels]
		}

		for _, channel := range textChannels {
			messages, err := p.client.ChannelMessages(ctx, discord.BotAuth(p.botToken), channel.ID, discordMessagesPerFetch)
			if err != nil {
				p.log.Warn().Err(err).Str("channel_id", channel.ID).Msg("skipping channel: message listing failed")
				continue
			}

			for _, msg := range messages {
				row := p.guildMessage(integration, guild, channel, msg, discordUserID)
				if err := p.messages.Upsert(ctx, row); err != nil {
					p.log.Warn().Err(err).Str("message_id", msg.ID).Msg("skipping message: upsert failed")
					continue
				}
				synced++
			}
		}
	}

	dmChannels, err := p.client.UserDMChannels(ctx, accessToken)
	if err != nil {
		p.log.Warn().Err(err).Msg("skipping direct messages: channel listing failed")
		return synced, nil
	}
	if len(dmChannels) > discordMaxDMChannels {
		dmChannels = dmChannels[:discordMaxDMChannels]
	}

	for _, channel := range dmChannels {
		messages, err := p.client.ChannelMessages(ctx, discord.BearerAuth(accessToken), channel.ID, discordMessagesPerFetch)
		if err != nil {
			p.log.Warn().Err(err).Str("channel_id", channel.ID).Msg("skipping dm channel: message listing failed")
			continue
		}

		for _, msg := range messages {
			row := p.directMessage(integration, channel, msg)
			if err := p.messages.Upsert(ctx, row); err != nil {
				p.log.Warn().Err(err).Str("message_id", msg.ID).Msg("skipping message: upsert failed")
				continue
			}
			synced++
		}
	}

	return synced, nil
}

func (p *DiscordProvider) guildMessage(integration *domain.Integration, guild discord.Guild, channel discord.Channel, msg discord.Message, discordUserID string) *domain.DiscordMessage {
	mentionsUser := false
	for _, mention := range msg.Mentions {
		if discordUserID != "" && mention.ID == discordUserID {
			mentionsUser = true
			break
		}
	}

	row := baseMessage(integration, msg)
	row.ChannelID = channel.ID
	row.ChannelName = channel.Name
	row.ServerID = guild.ID
	row.ServerName = guild.Name
	row.MentionsUser = mentionsUser
	return row
}

// directMessage rows always count as mentioning the user.
func (p *DiscordProvider) directMessage(integration *domain.Integration, channel discord.Channel, msg discord.Message) *domain.DiscordMessage {
	row := baseMessage(integration, msg)
	row.ChannelID = channel.ID
	row.ChannelName = "Direct Message"
	row.MentionsUser = true
	row.IsDirectMessage = true
	return row
}

func baseMessage(integration *domain.Integration, msg discord.Message) *domain.DiscordMessage {
	attachments := make([]domain.MessageAttachment, 0, len(msg.Attachments))
	for _, a := range msg.Attachments {
		attachments = append(attachments, domain.MessageAttachment{URL: a.URL, Filename: a.Filename})
	}
	embeds := msg.Embeds
	if embeds == nil {
		embeds = []map[string]interface{}{}
	}

	return &domain.DiscordMessage{
		UserID:        integration.UserID,
		IntegrationID: integration.ID,
		MessageID:     msg.ID,
		AuthorID:      msg.Author.ID,
		AuthorName:    msg.Author.Username,
		Content:       msg.Content,
		Attachments:   attachments,
		Embeds:        embeds,
		PostedAt:      msg.Timestamp,
	}
}
