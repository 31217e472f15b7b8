package service

import (
	"context"

	"clubhouse/internal/cache"
	"clubhouse/internal/models"
	"clubhouse/internal/repository"

	"gorm.io/gorm"
)

// RoomService orchestrates room creation and enrollment. Room and membership
// writes of a single operation run in one transaction, so a crash cannot
// leave a club room without its managing admin.
type RoomService struct {
	db         *gorm.DB
	roomRepo   repository.RoomRepository
	memberRepo repository.MembershipRepository
}

// CreateClubRoomInput creates the group room of a club and enrolls its
// manager as admin.
type CreateClubRoomInput struct {
	ClubID    uint
	Name      string
	ManagerID uint
}

// CreateCoachRoomInput creates the group room of a coach. CoachUserID is the
// coach's platform user, enrolled as the room's admin.
type CreateCoachRoomInput struct {
	CoachID     uint
	Name        string
	CoachUserID uint
}

func NewRoomService(db *gorm.DB, roomRepo repository.RoomRepository, memberRepo repository.MembershipRepository) *RoomService {
	return &RoomService{db: db, roomRepo: roomRepo, memberRepo: memberRepo}
}

// CreateClubRoom creates a club's room and enrolls the manager as admin. If a
// room already exists for the club, it is returned as is; a re-run therefore
// converges instead of duplicating rooms.
func (s *RoomService) CreateClubRoom(ctx context.Context, in CreateClubRoomInput) (*models.Room, error) {
	if in.Name == "" {
		return nil, models.NewValidationError("Room name is required")
	}

	existing, err := s.roomRepo.FindByClub(ctx, in.ClubID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	clubID := in.ClubID
	room := &models.Room{
		Kind:            models.RoomKindClub,
		Name:            in.Name,
		ClubID:          &clubID,
		CreatedByUserID: in.ManagerID,
	}
	if err := s.createWithAdmins(ctx, room, in.ManagerID); err != nil {
		return nil, err
	}
	cache.InvalidateUserRooms(ctx, in.ManagerID)
	return room, nil
}

// CreateCoachRoom creates a coach's room and enrolls the coach as admin.
// Idempotent per coach reference, like CreateClubRoom.
func (s *RoomService) CreateCoachRoom(ctx context.Context, in CreateCoachRoomInput) (*models.Room, error) {
	if in.Name == "" {
		return nil, models.NewValidationError("Room name is required")
	}

	existing, err := s.roomRepo.FindByCoach(ctx, in.CoachID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	coachID := in.CoachID
	room := &models.Room{
		Kind:            models.RoomKindCoach,
		Name:            in.Name,
		CoachID:         &coachID,
		CreatedByUserID: in.CoachUserID,
	}
	if err := s.createWithAdmins(ctx, room, in.CoachUserID); err != nil {
		return nil, err
	}
	cache.InvalidateUserRooms(ctx, in.CoachUserID)
	return room, nil
}

// AddMemberToClubRoom enrolls a user in a club's room as a regular member.
// Re-adding an existing member, including one with admin or ban state, leaves
// the membership untouched.
func (s *RoomService) AddMemberToClubRoom(ctx context.Context, clubID, userID uint) (*models.RoomMembership, error) {
	room, err := s.roomRepo.FindByClub(ctx, clubID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, models.NewNotFoundError("Room for club", clubID)
	}

	created, err := s.memberRepo.Add(ctx, &models.RoomMembership{
		RoomID:  room.ID,
		UserID:  userID,
		IsAdmin: false,
	})
	if err != nil {
		return nil, err
	}
	if created {
		cache.InvalidateUserRooms(ctx, userID)
	}
	return s.memberRepo.Get(ctx, room.ID, userID)
}

// CreateDirectMessageRoom finds or creates the 1-on-1 room for a pair of
// users, enrolling both as regular members. The pair is unordered: (A,B) and
// (B,A) resolve to the same room. A concurrent create losing the race on the
// pair key falls back to the winner's room.
func (s *RoomService) CreateDirectMessageRoom(ctx context.Context, userA, userB uint) (*models.Room, error) {
	if userA == userB {
		return nil, models.NewValidationError("A direct room requires two distinct users")
	}

	existing, err := s.roomRepo.FindDirect(ctx, userA, userB)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	key := models.DirectKeyFor(userA, userB)
	lo, hi := userA, userB
	if lo > hi {
		lo, hi = hi, lo
	}
	room := &models.Room{
		Kind:           models.RoomKindDirect,
		DirectKey:      &key,
		ParticipantAID: &lo,
		ParticipantBID: &hi,
	}
	if err := s.createWithMembers(ctx, room, userA, userB); err != nil {
		// Lost the race on the pair key: the other creator's room wins.
		winner, findErr := s.roomRepo.FindDirect(ctx, userA, userB)
		if findErr == nil && winner != nil {
			return winner, nil
		}
		return nil, err
	}

	cache.InvalidateUserRooms(ctx, userA)
	cache.InvalidateUserRooms(ctx, userB)
	return room, nil
}

// createWithAdmins creates a room and its admin membership in one
// transaction.
func (s *RoomService) createWithAdmins(ctx context.Context, room *models.Room, adminID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repository.NewRoomRepository(tx).Create(ctx, room); err != nil {
			return err
		}
		_, err := repository.NewMembershipRepository(tx).Add(ctx, &models.RoomMembership{
			RoomID:  room.ID,
			UserID:  adminID,
			IsAdmin: true,
		})
		return err
	})
}

// createWithMembers creates a room and regular memberships for each user in
// one transaction.
func (s *RoomService) createWithMembers(ctx context.Context, room *models.Room, userIDs ...uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repository.NewRoomRepository(tx).Create(ctx, room); err != nil {
			return err
		}
		members := repository.NewMembershipRepository(tx)
		for _, id := range userIDs {
			if _, err := members.Add(ctx, &models.RoomMembership{RoomID: room.ID, UserID: id}); err != nil {
				return err
			}
		}
		return nil
	})
}
