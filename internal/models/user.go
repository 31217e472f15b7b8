// Package models contains data structures for the application's domain models.
package models

import "time"

// User is the local projection of an identity issued by the identity
// provider. The chat core never creates or validates credentials; it only
// needs a row to join against and the platform admin flag resolved at
// bootstrap time.
type User struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Username        string    `gorm:"size:80;not null;uniqueIndex" json:"username"`
	Email           string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Password        string    `gorm:"size:255" json:"-"`
	AvatarURL       string    `gorm:"size:512" json:"avatar_url"`
	IsPlatformAdmin bool      `gorm:"default:false" json:"is_platform_admin"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
