package service

import (
	"context"
	"time"

	"clubhouse/internal/cache"
	"clubhouse/internal/models"
	"clubhouse/internal/observability"
	"clubhouse/internal/repository"
)

// ModerationService decides who may moderate and applies room-level and
// platform-level bans.
type ModerationService struct {
	memberRepo    repository.MembershipRepository
	globalBanRepo repository.GlobalBanRepository
	userRepo      repository.UserRepository
}

// RoomBanInput is the input for banning a user from a room.
type RoomBanInput struct {
	RoomID   uint
	TargetID uint
	ActorID  uint
	Duration *time.Duration // nil means permanent
	Reason   string
}

func NewModerationService(
	memberRepo repository.MembershipRepository,
	globalBanRepo repository.GlobalBanRepository,
	userRepo repository.UserRepository,
) *ModerationService {
	return &ModerationService{
		memberRepo:    memberRepo,
		globalBanRepo: globalBanRepo,
		userRepo:      userRepo,
	}
}

// CanModerate reports whether a user may take moderation actions in a room:
// room admins and platform admins qualify. Banned room admins retain the
// room-admin grant.
func (s *ModerationService) CanModerate(ctx context.Context, roomID, userID uint) (bool, error) {
	isPlatformAdmin, err := s.userRepo.IsPlatformAdmin(ctx, userID)
	if err != nil {
		return false, err
	}
	if isPlatformAdmin {
		return true, nil
	}
	membership, err := s.memberRepo.Get(ctx, roomID, userID)
	if err != nil {
		return false, err
	}
	return membership != nil && membership.IsAdmin, nil
}

// BanFromRoom bans a member from a room, permanently or until now+duration.
// The actor must be able to moderate the room. Admins can ban other admins
// and themselves; a repeated ban overwrites the previous ban state.
func (s *ModerationService) BanFromRoom(ctx context.Context, in RoomBanInput) error {
	allowed, err := s.CanModerate(ctx, in.RoomID, in.ActorID)
	if err != nil {
		return err
	}
	if !allowed {
		return models.NewForbiddenError("Only a room admin can ban members")
	}

	target, err := s.memberRepo.Get(ctx, in.RoomID, in.TargetID)
	if err != nil {
		return err
	}
	if target == nil {
		return models.NewNotMemberError(in.RoomID, in.TargetID)
	}

	var until *time.Time
	if in.Duration != nil {
		t := time.Now().UTC().Add(*in.Duration)
		until = &t
	}
	if err := s.memberRepo.SetBan(ctx, in.RoomID, in.TargetID, in.ActorID, until, in.Reason); err != nil {
		return err
	}

	observability.ModerationActions.WithLabelValues("room", "ban").Inc()
	cache.InvalidateUserRooms(ctx, in.TargetID)
	return nil
}

// UnbanFromRoom lifts a room ban. The actor must be able to moderate the
// room. Unbanning a member who is not banned is a no-op.
func (s *ModerationService) UnbanFromRoom(ctx context.Context, roomID, targetID, actorID uint) error {
	allowed, err := s.CanModerate(ctx, roomID, actorID)
	if err != nil {
		return err
	}
	if !allowed {
		return models.NewForbiddenError("Only a room admin can unban members")
	}

	target, err := s.memberRepo.Get(ctx, roomID, targetID)
	if err != nil {
		return err
	}
	if target == nil {
		return models.NewNotMemberError(roomID, targetID)
	}

	if err := s.memberRepo.ClearBan(ctx, roomID, targetID); err != nil {
		return err
	}

	observability.ModerationActions.WithLabelValues("room", "unban").Inc()
	cache.InvalidateUserRooms(ctx, targetID)
	return nil
}

// ListRoomBans returns the memberships of a room whose ban is currently in
// effect. The caller must be able to moderate the room.
func (s *ModerationService) ListRoomBans(ctx context.Context, roomID, actorID uint) ([]*models.RoomMembership, error) {
	allowed, err := s.CanModerate(ctx, roomID, actorID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, models.NewForbiddenError("Only a room admin can list bans")
	}

	memberships, err := s.memberRepo.ListByRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	banned := make([]*models.RoomMembership, 0)
	for _, m := range memberships {
		if m.BanActiveAt(now) {
			banned = append(banned, m)
		}
	}
	return banned, nil
}

// GlobalBan bans a user from sending messages anywhere on the platform.
// Authorization (platform admin) is enforced at the transport layer. Fails
// with AlreadyBanned if a ban is already in place.
func (s *ModerationService) GlobalBan(ctx context.Context, targetID, actorID uint, reason string) error {
	existing, err := s.globalBanRepo.Get(ctx, targetID)
	if err != nil {
		return err
	}
	if existing != nil {
		return models.NewAlreadyBannedError(targetID)
	}

	ban := &models.GlobalBan{
		UserID:         targetID,
		BannedByUserID: actorID,
		Reason:         reason,
	}
	if err := s.globalBanRepo.Create(ctx, ban); err != nil {
		return err
	}

	observability.ModerationActions.WithLabelValues("global", "ban").Inc()
	return nil
}

// GlobalUnban lifts a platform-level ban. Fails with NotBanned if none is in
// place.
func (s *ModerationService) GlobalUnban(ctx context.Context, targetID uint) error {
	deleted, err := s.globalBanRepo.Delete(ctx, targetID)
	if err != nil {
		return err
	}
	if !deleted {
		return models.NewNotBannedError(targetID)
	}

	observability.ModerationActions.WithLabelValues("global", "unban").Inc()
	return nil
}

// IsGloballyBanned reports whether a platform-level ban is in place for the
// user.
func (s *ModerationService) IsGloballyBanned(ctx context.Context, userID uint) (bool, error) {
	ban, err := s.globalBanRepo.Get(ctx, userID)
	if err != nil {
		return false, err
	}
	return ban != nil, nil
}

// ListGlobalBans returns all platform-level bans, newest first.
func (s *ModerationService) ListGlobalBans(ctx context.Context) ([]*models.GlobalBan, error) {
	return s.globalBanRepo.List(ctx)
}
