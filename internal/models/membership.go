package models

import "time"

// RoomMembership maps users to rooms and tracks their admin flag, ban state
// and read watermark. The composite primary key enforces at most one row per
// (room, user) pair.
type RoomMembership struct {
	RoomID uint  `gorm:"primaryKey;autoIncrement:false" json:"room_id"`
	Room   *Room `gorm:"foreignKey:RoomID" json:"room,omitempty"`
	UserID uint  `gorm:"primaryKey;autoIncrement:false;index" json:"user_id"`
	User   *User `gorm:"foreignKey:UserID" json:"user,omitempty"`

	IsAdmin bool `gorm:"default:false" json:"is_admin"`

	// IsBanned with a nil BannedUntil is a permanent room ban. A set
	// BannedUntil bounds the ban; expiry is evaluated against it on every
	// read, and the stale flag is cleared lazily on the next send attempt.
	IsBanned       bool       `gorm:"default:false" json:"is_banned"`
	BannedUntil    *time.Time `json:"banned_until,omitempty"`
	BannedByUserID *uint      `json:"banned_by_user_id,omitempty"`
	BanReason      string     `gorm:"type:text;default:''" json:"ban_reason"`

	JoinedAt   time.Time  `gorm:"autoCreateTime" json:"joined_at"`
	LastReadAt *time.Time `json:"last_read_at,omitempty"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (RoomMembership) TableName() string {
	return "room_memberships"
}

// BanActiveAt reports whether the membership's ban is in effect at the given
// instant. BannedUntil is the source of truth: an expired timed ban no longer
// counts even if the stored flag has not been cleared yet.
func (m *RoomMembership) BanActiveAt(now time.Time) bool {
	if !m.IsBanned {
		return false
	}
	if m.BannedUntil == nil {
		return true
	}
	return m.BannedUntil.After(now)
}
