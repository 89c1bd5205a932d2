package repository

import (
	"context"
	"time"

	"torch-backend/internal/integration/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// discordMessageRepository implements DiscordMessageRepository using GORM
type discordMessageRepository struct {
	db *gorm.DB
}

// NewDiscordMessageRepository creates a new instance of discordMessageRepository
func NewDiscordMessageRepository(db *gorm.DB) DiscordMessageRepository {
	return &discordMessageRepository{db: db}
}

func (r *discordMessageRepository) Upsert(ctx context.Context, message *domain.DiscordMessage) error {
	now := time.Now()
	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	message.CreatedAt = now
	message.UpdatedAt = now

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "integration_id"}, {Name: "message_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"channel_name", "server_name", "author_name", "content",
			"mentions_user", "attachments", "embeds", "updated_at",
		}),
	}).Create(message).Error
}

func (r *discordMessageRepository) RecentByUser(ctx context.Context, userID string, limit int) ([]*domain.DiscordMessage, error) {
	var messages []*domain.DiscordMessage
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("posted_at DESC").
		Limit(limit).
		Find(&messages).Error
	return messages, err
}

func (r *discordMessageRepository) MentionsByUser(ctx context.Context, userID string, limit int) ([]*domain.DiscordMessage, error) {
	var messages []*domain.DiscordMessage
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND mentions_user = ?", userID, true).
		Order("posted_at DESC").
		Limit(limit).
		Find(&messages).Error
	return messages, err
}
