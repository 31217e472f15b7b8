package models

import "time"

// MessageReaction is an emoji reaction on a message. The unique index on the
// (message, user, emoji) triple makes the toggle operation safe under
// concurrent calls.
type MessageReaction struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	MessageID uint      `gorm:"not null;index;uniqueIndex:idx_reaction_triple,priority:1" json:"message_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_reaction_triple,priority:2" json:"user_id"`
	Emoji     string    `gorm:"size:32;not null;uniqueIndex:idx_reaction_triple,priority:3" json:"emoji"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM.
func (MessageReaction) TableName() string {
	return "message_reactions"
}
