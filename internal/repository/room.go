// Package repository contains the data access layer for the chat core.
package repository

import (
	"context"
	"errors"

	"clubhouse/internal/models"

	"gorm.io/gorm"
)

// RoomRepository defines the room directory: creation and lookup of
// conversation rooms. Deduplication is the caller's job for club and coach
// rooms; direct rooms are deduplicated here via the normalized pair key.
type RoomRepository interface {
	Create(ctx context.Context, room *models.Room) error
	GetByID(ctx context.Context, id uint) (*models.Room, error)
	FindByClub(ctx context.Context, clubID uint) (*models.Room, error)
	FindByCoach(ctx context.Context, coachID uint) (*models.Room, error)
	FindDirect(ctx context.Context, userA, userB uint) (*models.Room, error)
}

// roomRepository implements RoomRepository
type roomRepository struct {
	db *gorm.DB
}

// NewRoomRepository creates a new room repository
func NewRoomRepository(db *gorm.DB) RoomRepository {
	return &roomRepository{db: db}
}

func (r *roomRepository) Create(ctx context.Context, room *models.Room) error {
	if err := room.Validate(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(room).Error
}

func (r *roomRepository) GetByID(ctx context.Context, id uint) (*models.Room, error) {
	var room models.Room
	err := r.db.WithContext(ctx).First(&room, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Room", id)
		}
		return nil, err
	}
	return &room, nil
}

func (r *roomRepository) FindByClub(ctx context.Context, clubID uint) (*models.Room, error) {
	return r.findOne(ctx, "kind = ? AND club_id = ?", models.RoomKindClub, clubID)
}

func (r *roomRepository) FindByCoach(ctx context.Context, coachID uint) (*models.Room, error) {
	return r.findOne(ctx, "kind = ? AND coach_id = ?", models.RoomKindCoach, coachID)
}

// FindDirect resolves a 1-on-1 room by its normalized pair key, so (A,B) and
// (B,A) hit the same row with a point lookup. Returns (nil, nil) when absent.
func (r *roomRepository) FindDirect(ctx context.Context, userA, userB uint) (*models.Room, error) {
	return r.findOne(ctx, "direct_key = ?", models.DirectKeyFor(userA, userB))
}

func (r *roomRepository) findOne(ctx context.Context, query string, args ...interface{}) (*models.Room, error) {
	var room models.Room
	err := r.db.WithContext(ctx).Where(query, args...).First(&room).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &room, nil
}
