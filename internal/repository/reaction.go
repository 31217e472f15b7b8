package repository

import (
	"context"
	"errors"

	"clubhouse/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReactionRepository is the one-reaction-per-(message,user,emoji) toggle set.
type ReactionRepository interface {
	Find(ctx context.Context, messageID, userID uint, emoji string) (*models.MessageReaction, error)
	GetByID(ctx context.Context, id uint) (*models.MessageReaction, error)
	// Toggle flips the (message, user, emoji) triple: deletes the reaction if
	// present, inserts it otherwise. Returns the created reaction, or nil
	// when the call toggled off.
	Toggle(ctx context.Context, messageID, userID uint, emoji string) (*models.MessageReaction, error)
	Delete(ctx context.Context, id uint) error
}

// reactionRepository implements ReactionRepository
type reactionRepository struct {
	db *gorm.DB
}

// NewReactionRepository creates a new reaction repository
func NewReactionRepository(db *gorm.DB) ReactionRepository {
	return &reactionRepository{db: db}
}

func (r *reactionRepository) Find(ctx context.Context, messageID, userID uint, emoji string) (*models.MessageReaction, error) {
	var reaction models.MessageReaction
	err := r.db.WithContext(ctx).
		Where("message_id = ? AND user_id = ? AND emoji = ?", messageID, userID, emoji).
		First(&reaction).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &reaction, nil
}

func (r *reactionRepository) GetByID(ctx context.Context, id uint) (*models.MessageReaction, error) {
	var reaction models.MessageReaction
	err := r.db.WithContext(ctx).First(&reaction, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Reaction", id)
		}
		return nil, err
	}
	return &reaction, nil
}

func (r *reactionRepository) Toggle(ctx context.Context, messageID, userID uint, emoji string) (*models.MessageReaction, error) {
	var created *models.MessageReaction
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("message_id = ? AND user_id = ? AND emoji = ?", messageID, userID, emoji).
			Delete(&models.MessageReaction{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			// toggled off
			return nil
		}
		reaction := &models.MessageReaction{
			MessageID: messageID,
			UserID:    userID,
			Emoji:     emoji,
		}
		// The unique triple index plus DoNothing makes a concurrent double
		// toggle-on collapse to a single row.
		ins := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(reaction)
		if ins.Error != nil {
			return ins.Error
		}
		if ins.RowsAffected > 0 {
			created = reaction
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *reactionRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.MessageReaction{}, id).Error
}
