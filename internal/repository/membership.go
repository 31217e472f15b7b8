package repository

import (
	"context"
	"errors"
	"time"

	"clubhouse/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MembershipRepository is the membership ledger: who belongs to a room, their
// admin flag, ban state and read watermark.
type MembershipRepository interface {
	// Add enrolls a user in a room. The insert is an insert-if-absent: a
	// concurrent or repeated call for the same (room, user) leaves the
	// existing row untouched and reports created=false.
	Add(ctx context.Context, m *models.RoomMembership) (created bool, err error)
	Get(ctx context.Context, roomID, userID uint) (*models.RoomMembership, error)
	ListByRoom(ctx context.Context, roomID uint) ([]*models.RoomMembership, error)
	// ListActiveByUser returns the user's memberships with rooms preloaded,
	// excluding those with a ban in effect at the given instant.
	ListActiveByUser(ctx context.Context, userID uint, now time.Time) ([]*models.RoomMembership, error)
	SetBan(ctx context.Context, roomID, targetID, actorID uint, until *time.Time, reason string) error
	ClearBan(ctx context.Context, roomID, targetID uint) error
	MarkRead(ctx context.Context, roomID, userID uint, at time.Time) error
}

// membershipRepository implements MembershipRepository
type membershipRepository struct {
	db *gorm.DB
}

// NewMembershipRepository creates a new membership repository
func NewMembershipRepository(db *gorm.DB) MembershipRepository {
	return &membershipRepository{db: db}
}

func (r *membershipRepository) Add(ctx context.Context, m *models.RoomMembership) (bool, error) {
	// OnConflict(DoNothing) on the composite primary key turns the
	// check-then-act race into a single idempotent insert.
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(m)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *membershipRepository) Get(ctx context.Context, roomID, userID uint) (*models.RoomMembership, error) {
	var m models.RoomMembership
	err := r.db.WithContext(ctx).
		Where("room_id = ? AND user_id = ?", roomID, userID).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (r *membershipRepository) ListByRoom(ctx context.Context, roomID uint) ([]*models.RoomMembership, error) {
	var members []*models.RoomMembership
	err := r.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Preload("User").
		Find(&members).Error
	return members, err
}

func (r *membershipRepository) ListActiveByUser(ctx context.Context, userID uint, now time.Time) ([]*models.RoomMembership, error) {
	var members []*models.RoomMembership
	// banned_until is authoritative: a timed ban that has lapsed no longer
	// hides the room even if the flag has not been lazily cleared yet.
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("is_banned = ? OR (banned_until IS NOT NULL AND banned_until <= ?)", false, now).
		Preload("Room").
		Find(&members).Error
	return members, err
}

func (r *membershipRepository) SetBan(ctx context.Context, roomID, targetID, actorID uint, until *time.Time, reason string) error {
	return r.updateExisting(ctx, roomID, targetID, map[string]interface{}{
		"is_banned":         true,
		"banned_until":      until,
		"banned_by_user_id": actorID,
		"ban_reason":        reason,
	})
}

func (r *membershipRepository) ClearBan(ctx context.Context, roomID, targetID uint) error {
	return r.updateExisting(ctx, roomID, targetID, map[string]interface{}{
		"is_banned":         false,
		"banned_until":      nil,
		"banned_by_user_id": nil,
		"ban_reason":        "",
	})
}

func (r *membershipRepository) MarkRead(ctx context.Context, roomID, userID uint, at time.Time) error {
	return r.updateExisting(ctx, roomID, userID, map[string]interface{}{
		"last_read_at": at,
	})
}

func (r *membershipRepository) updateExisting(ctx context.Context, roomID, userID uint, updates map[string]interface{}) error {
	res := r.db.WithContext(ctx).
		Model(&models.RoomMembership{}).
		Where("room_id = ? AND user_id = ?", roomID, userID).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.NewNotMemberError(roomID, userID)
	}
	return nil
}
