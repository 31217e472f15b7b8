package models

import "time"

// GlobalBan blocks a user from sending messages in every room, independent of
// any room membership. Global bans never lapse automatically; the user-scoped
// primary key allows at most one active ban per user.
type GlobalBan struct {
	UserID         uint      `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	User           *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	BannedByUserID uint      `gorm:"not null;index" json:"banned_by_user_id"`
	BannedByUser   *User     `gorm:"foreignKey:BannedByUserID" json:"banned_by_user,omitempty"`
	Reason         string    `gorm:"type:text;default:''" json:"reason"`
	CreatedAt      time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM.
func (GlobalBan) TableName() string {
	return "global_bans"
}
