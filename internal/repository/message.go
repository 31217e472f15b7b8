package repository

import (
	"context"
	"errors"
	"time"

	"clubhouse/internal/models"

	"gorm.io/gorm"
)

// MessageRepository is the append-only message log per room.
type MessageRepository interface {
	Create(ctx context.Context, msg *models.ChatMessage) error
	GetByID(ctx context.Context, id uint) (*models.ChatMessage, error)
	// ListRecent returns the most recent limit messages in chronological
	// order with reactions preloaded.
	ListRecent(ctx context.Context, roomID uint, limit int) ([]*models.ChatMessage, error)
	CountAfter(ctx context.Context, roomID uint, since *time.Time) (int64, error)
	UpdateContent(ctx context.Context, id uint, content string, editedAt time.Time) error
	// DeleteCascade removes the message's reactions, then the message. Both
	// deletions run in one transaction.
	DeleteCascade(ctx context.Context, id uint) error
}

// messageRepository implements MessageRepository
type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, msg *models.ChatMessage) error {
	if msg.ImageURLs == nil {
		msg.ImageURLs = models.StringList{}
	}
	return r.db.WithContext(ctx).Create(msg).Error
}

func (r *messageRepository) GetByID(ctx context.Context, id uint) (*models.ChatMessage, error) {
	var msg models.ChatMessage
	err := r.db.WithContext(ctx).Preload("Reactions").First(&msg, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Message", id)
		}
		return nil, err
	}
	return &msg, nil
}

func (r *messageRepository) ListRecent(ctx context.Context, roomID uint, limit int) ([]*models.ChatMessage, error) {
	var messages []*models.ChatMessage
	err := r.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Preload("Reactions").
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}

	// Reverse messages to return them in chronological order (oldest -> newest)
	// We fetched DESC to get the *latest* messages, but callers expect ASC
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, nil
}

func (r *messageRepository) CountAfter(ctx context.Context, roomID uint, since *time.Time) (int64, error) {
	q := r.db.WithContext(ctx).
		Model(&models.ChatMessage{}).
		Where("room_id = ?", roomID)
	if since != nil {
		q = q.Where("created_at > ?", *since)
	}
	var count int64
	err := q.Count(&count).Error
	return count, err
}

func (r *messageRepository) UpdateContent(ctx context.Context, id uint, content string, editedAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.ChatMessage{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"content":   content,
			"edited_at": editedAt,
		}).Error
}

func (r *messageRepository) DeleteCascade(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("message_id = ?", id).Delete(&models.MessageReaction{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.ChatMessage{}, id).Error
	})
}
