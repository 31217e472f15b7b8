package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// StringList is a JSON-encoded string slice column. Used for attachment URLs
// produced by the external upload service and stored verbatim.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("cannot scan %T into StringList", value)
	}
}

// ChatMessage is an entry in a room's append-only message log. Editing only
// replaces content and stamps EditedAt; deletion is hard and cascades to the
// message's reactions first.
type ChatMessage struct {
	ID       uint  `gorm:"primaryKey" json:"id"`
	RoomID   uint  `gorm:"not null;index:idx_messages_room_created,priority:1" json:"room_id"`
	Room     *Room `gorm:"foreignKey:RoomID" json:"room,omitempty"`
	AuthorID uint  `gorm:"not null;index" json:"author_id"`
	Author   *User `gorm:"foreignKey:AuthorID" json:"author,omitempty"`

	Content   string     `gorm:"type:text" json:"content"`
	ImageURLs StringList `gorm:"type:json" json:"image_urls"`

	// ReplyToID is stored as given with no existence validation; a dangling
	// reference is tolerated.
	ReplyToID *uint `json:"reply_to_id,omitempty"`

	CreatedAt time.Time  `gorm:"index:idx_messages_room_created,priority:2" json:"created_at"`
	EditedAt  *time.Time `json:"edited_at,omitempty"`

	Reactions []MessageReaction `gorm:"foreignKey:MessageID" json:"reactions"`
}

// TableName specifies the table name for GORM.
func (ChatMessage) TableName() string {
	return "chat_messages"
}
