package models

import (
	"fmt"
	"time"
)

// RoomKind defines what a chat room is scoped to.
type RoomKind string

const (
	// RoomKindClub is a room shared by a club's members.
	RoomKindClub RoomKind = "club"
	// RoomKindCoach is a room between a coach and their athletes.
	RoomKindCoach RoomKind = "coach"
	// RoomKindDirect is a 1-on-1 room between two users.
	RoomKindDirect RoomKind = "direct"
)

// Room represents a conversation scope. Exactly one of ClubID, CoachID or the
// participant pair is populated, consistent with Kind. Rooms are created once
// by the bootstrap orchestrator and never updated or deleted.
type Room struct {
	ID   uint     `gorm:"primaryKey" json:"id"`
	Kind RoomKind `gorm:"type:varchar(20);not null;index" json:"kind"`
	Name string   `gorm:"size:120" json:"name"` // empty for direct rooms

	ClubID  *uint `gorm:"index" json:"club_id,omitempty"`
	CoachID *uint `gorm:"index" json:"coach_id,omitempty"`

	// Direct rooms fix their two participants at creation time. DirectKey is
	// the normalized "min:max" pair used to dedupe lookups regardless of
	// argument order.
	ParticipantAID *uint   `json:"participant_a_id,omitempty"`
	ParticipantBID *uint   `json:"participant_b_id,omitempty"`
	DirectKey      *string `gorm:"size:64;uniqueIndex" json:"-"`

	CreatedByUserID uint      `json:"created_by_user_id"`
	CreatedAt       time.Time `json:"created_at"`

	Memberships []RoomMembership `gorm:"foreignKey:RoomID" json:"memberships,omitempty"`

	// UnreadCount is filled in per-caller by room listing reads.
	UnreadCount int64 `gorm:"-" json:"unread_count"`
}

// TableName specifies the table name for GORM.
func (Room) TableName() string {
	return "rooms"
}

// DirectKeyFor returns the normalized order-independent key for a user pair.
func DirectKeyFor(userA, userB uint) string {
	if userB < userA {
		userA, userB = userB, userA
	}
	return fmt.Sprintf("%d:%d", userA, userB)
}

// Validate checks the kind/reference consistency invariant.
func (r *Room) Validate() error {
	switch r.Kind {
	case RoomKindClub:
		if r.ClubID == nil || r.CoachID != nil || r.DirectKey != nil {
			return NewValidationError("Club rooms require a club reference and nothing else")
		}
	case RoomKindCoach:
		if r.CoachID == nil || r.ClubID != nil || r.DirectKey != nil {
			return NewValidationError("Coach rooms require a coach reference and nothing else")
		}
	case RoomKindDirect:
		if r.ParticipantAID == nil || r.ParticipantBID == nil || r.DirectKey == nil ||
			r.ClubID != nil || r.CoachID != nil {
			return NewValidationError("Direct rooms require exactly a participant pair")
		}
		if r.Name != "" {
			return NewValidationError("Direct rooms cannot have a display name")
		}
	default:
		return NewValidationError("Unknown room kind")
	}
	return nil
}
