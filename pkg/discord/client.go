// Package discord is a minimal typed client for the Discord REST API,
// covering the endpoints the sync pipeline needs.
package discord

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// Channel types per the Discord API.
const (
	ChannelTypeGuildText = 0
	ChannelTypeDM        = 1
)

// User is the authenticated or mentioned Discord user.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Guild is one server the user belongs to.
type Guild struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Channel is a guild or DM channel.
type Channel struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type int    `json:"type"`
}

// Attachment is a file attached to a message.
type Attachment struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

// Message is one channel message.
type Message struct {
	ID          string                   `json:"id"`
	ChannelID   string                   `json:"channel_id"`
	Author      User                     `json:"author"`
	Content     string                   `json:"content"`
	Timestamp   time.Time                `json:"timestamp"`
	Mentions    []User                   `json:"mentions"`
	Attachments []Attachment             `json:"attachments"`
	Embeds      []map[string]interface{} `json:"embeds"`
}

// Client talks to the Discord REST API. Bot-scoped calls carry the bot token;
// user-scoped calls carry the integration's OAuth bearer token.
type Client struct {
	rc *resty.Client
}

// New creates a client against the given API base URL (the production URL in
// normal operation, an httptest server in tests).
func New(baseURL string, timeout time.Duration) *Client {
	rc := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout)
	return &Client{rc: rc}
}

// BearerAuth formats a user OAuth token as an Authorization header value.
func BearerAuth(token string) string { return "Bearer " + token }

// BotAuth formats a bot token as an Authorization header value.
func BotAuth(token string) string { return "Bot " + token }

// CurrentUser returns the user the OAuth token belongs to.
func (c *Client) CurrentUser(ctx context.Context, userToken string) (*User, error) {
	var user User
	resp, err := c.rc.R().
		SetContext(ctx).
		SetHeader("Authorization", BearerAuth(userToken)).
		SetResult(&user).
		Get("/users/@me")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("discord: get current user: %s", resp.Status())
	}
	return &user, nil
}

// UserGuilds lists the guilds the user belongs to.
func (c *Client) UserGuilds(ctx context.Context, userToken string) ([]Guild, error) {
	var guilds []Guild
	resp, err := c.rc.R().
		SetContext(ctx).
		SetHeader("Authorization", BearerAuth(userToken)).
		SetResult(&guilds).
		Get("/users/@me/guilds")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("discord: list guilds: %s", resp.Status())
	}
	return guilds, nil
}

// GuildChannels lists a guild's channels. Requires the bot token.
func (c *Client) GuildChannels(ctx context.Context, botToken, guildID string) ([]Channel, error) {
	var channels []Channel
	resp, err := c.rc.R().
		SetContext(ctx).
		SetHeader("Authorization", BotAuth(botToken)).
		SetResult(&channels).
		Get(fmt.Sprintf("/guilds/%s/channels", guildID))
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("discord: list channels of guild %s: %s", guildID, resp.Status())
	}
	return channels, nil
}

// UserDMChannels lists the user's direct-message channels.
func (c *Client) UserDMChannels(ctx context.Context, userToken string) ([]Channel, error) {
	var channels []Channel
	resp, err := c.rc.R().
		SetContext(ctx).
		SetHeader("Authorization", BearerAuth(userToken)).
		SetResult(&channels).
		Get("/users/@me/channels")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("discord: list dm channels: %s", resp.Status())
	}
	return channels, nil
}

// ChannelMessages fetches the latest messages of a channel, newest first.
// auth is a pre-formatted Authorization header value (bot or bearer).
func (c *Client) ChannelMessages(ctx context.Context, auth, channelID string, limit int) ([]Message, error) {
	var messages []Message
	resp, err := c.rc.R().
		SetContext(ctx).
		SetHeader("Authorization", auth).
		SetQueryParam("limit", fmt.Sprintf("%d", limit)).
		SetResult(&messages).
		Get(fmt.Sprintf("/channels/%s/messages", channelID))
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("discord: list messages of channel %s: %s", channelID, resp.Status())
	}
	return messages, nil
}
