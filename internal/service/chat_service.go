// Package service provides the business logic of the chat core.
package service

import (
	"context"
	"strings"
	"time"

	"clubhouse/internal/cache"
	"clubhouse/internal/models"
	"clubhouse/internal/observability"
	"clubhouse/internal/repository"
)

const maxMessageContentLen = 10000 // 10K characters

// ChatService provides the message lifecycle, reaction toggling and read
// tracking for rooms.
type ChatService struct {
	roomRepo      repository.RoomRepository
	memberRepo    repository.MembershipRepository
	messageRepo   repository.MessageRepository
	reactionRepo  repository.ReactionRepository
	globalBanRepo repository.GlobalBanRepository
	canModerate   func(ctx context.Context, roomID, userID uint) (bool, error)
}

// SendMessageInput is the input for sending a message.
type SendMessageInput struct {
	UserID    uint
	RoomID    uint
	Content   string
	ImageURLs []string
	ReplyToID *uint
}

// NewChatService returns a new ChatService. canModerate resolves whether a
// user may act as a moderator in a room (room admin or platform admin); it is
// injected so the authority decision stays with the moderation layer.
func NewChatService(
	roomRepo repository.RoomRepository,
	memberRepo repository.MembershipRepository,
	messageRepo repository.MessageRepository,
	reactionRepo repository.ReactionRepository,
	globalBanRepo repository.GlobalBanRepository,
	canModerate func(ctx context.Context, roomID, userID uint) (bool, error),
) *ChatService {
	return &ChatService{
		roomRepo:      roomRepo,
		memberRepo:    memberRepo,
		messageRepo:   messageRepo,
		reactionRepo:  reactionRepo,
		globalBanRepo: globalBanRepo,
		canModerate:   canModerate,
	}
}

// SendMessage posts a message to a room. The author must hold a membership
// whose ban is not in effect; a lapsed timed ban is cleared here as a side
// effect (lazy expiry). A platform-level ban blocks sending everywhere and is
// never healed.
func (s *ChatService) SendMessage(ctx context.Context, in SendMessageInput) (*models.ChatMessage, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" && len(in.ImageURLs) == 0 {
		return nil, models.NewValidationError("Message requires content or at least one image")
	}
	if len(content) > maxMessageContentLen {
		return nil, models.NewValidationError("Message content too long (max 10000 characters)")
	}

	room, err := s.roomRepo.GetByID(ctx, in.RoomID)
	if err != nil {
		return nil, err
	}

	membership, err := s.memberRepo.Get(ctx, in.RoomID, in.UserID)
	if err != nil {
		return nil, err
	}
	if membership == nil {
		observability.SendRejections.WithLabelValues(models.CodeNotMember).Inc()
		return nil, models.NewNotMemberError(in.RoomID, in.UserID)
	}

	now := time.Now().UTC()
	if membership.IsBanned {
		if membership.BanActiveAt(now) {
			observability.SendRejections.WithLabelValues(models.CodeBanned).Inc()
			return nil, models.NewBannedError(in.RoomID)
		}
		// Timed ban has lapsed: heal the stale row before proceeding.
		if err := s.memberRepo.ClearBan(ctx, in.RoomID, in.UserID); err != nil {
			return nil, err
		}
		cache.InvalidateUserRooms(ctx, in.UserID)
	}

	globalBan, err := s.globalBanRepo.Get(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if globalBan != nil {
		observability.SendRejections.WithLabelValues(models.CodeGloballyBanned).Inc()
		return nil, models.NewGloballyBannedError()
	}

	message := &models.ChatMessage{
		RoomID:    in.RoomID,
		AuthorID:  in.UserID,
		Content:   content,
		ImageURLs: models.StringList(in.ImageURLs),
		ReplyToID: in.ReplyToID, // stored verbatim, no existence validation
	}
	if err := s.messageRepo.Create(ctx, message); err != nil {
		return nil, err
	}

	observability.MessagesSent.WithLabelValues(string(room.Kind)).Inc()
	return message, nil
}

// EditMessage replaces a message's content. Only the original author may
// edit; there is no admin-override edit path.
func (s *ChatService) EditMessage(ctx context.Context, messageID, editorID uint, newContent string) (*models.ChatMessage, error) {
	newContent = strings.TrimSpace(newContent)
	if newContent == "" {
		return nil, models.NewValidationError("Message content is required")
	}
	if len(newContent) > maxMessageContentLen {
		return nil, models.NewValidationError("Message content too long (max 10000 characters)")
	}

	message, err := s.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if message.AuthorID != editorID {
		return nil, models.NewForbiddenError("Only the author can edit a message")
	}

	editedAt := time.Now().UTC()
	if err := s.messageRepo.UpdateContent(ctx, messageID, newContent, editedAt); err != nil {
		return nil, err
	}
	message.Content = newContent
	message.EditedAt = &editedAt
	return message, nil
}

// DeleteMessage removes a message and all its reactions. Allowed for the
// author or for a moderator of the room.
func (s *ChatService) DeleteMessage(ctx context.Context, messageID, requesterID uint) error {
	message, err := s.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		return err
	}
	if message.AuthorID != requesterID {
		allowed := false
		if s.canModerate != nil {
			allowed, err = s.canModerate(ctx, message.RoomID, requesterID)
			if err != nil {
				return err
			}
		}
		if !allowed {
			return models.NewForbiddenError("Only the author or a moderator can delete a message")
		}
	}
	return s.messageRepo.DeleteCascade(ctx, messageID)
}

// GetMessages returns the most recent limit messages of a room in
// chronological order, each annotated with its current reactions. The caller
// must be a member whose ban is not in effect.
func (s *ChatService) GetMessages(ctx context.Context, roomID, userID uint, limit int) ([]*models.ChatMessage, error) {
	membership, err := s.memberRepo.Get(ctx, roomID, userID)
	if err != nil {
		return nil, err
	}
	if membership == nil {
		return nil, models.NewNotMemberError(roomID, userID)
	}
	if membership.BanActiveAt(time.Now().UTC()) {
		return nil, models.NewBannedError(roomID)
	}
	if limit <= 0 {
		limit = 50
	}
	return s.messageRepo.ListRecent(ctx, roomID, limit)
}

// ToggleReaction flips the (message, user, emoji) reaction. Returns the new
// reaction when toggled on, nil when toggled off.
func (s *ChatService) ToggleReaction(ctx context.Context, messageID, userID uint, emoji string) (*models.MessageReaction, error) {
	if emoji == "" {
		return nil, models.NewValidationError("Emoji is required")
	}
	message, err := s.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		return nil, err
	}
	membership, err := s.memberRepo.Get(ctx, message.RoomID, userID)
	if err != nil {
		return nil, err
	}
	if membership == nil {
		return nil, models.NewNotMemberError(message.RoomID, userID)
	}
	return s.reactionRepo.Toggle(ctx, messageID, userID, emoji)
}

// RemoveReaction deletes a reaction unconditionally. Only its creator may
// remove it.
func (s *ChatService) RemoveReaction(ctx context.Context, reactionID, requesterID uint) error {
	reaction, err := s.reactionRepo.GetByID(ctx, reactionID)
	if err != nil {
		return err
	}
	if reaction.UserID != requesterID {
		return models.NewForbiddenError("Only the reaction's creator can remove it")
	}
	return s.reactionRepo.Delete(ctx, reactionID)
}

// MarkRead sets the caller's read watermark for a room to now.
func (s *ChatService) MarkRead(ctx context.Context, roomID, userID uint) error {
	membership, err := s.memberRepo.Get(ctx, roomID, userID)
	if err != nil {
		return err
	}
	if membership == nil {
		return models.NewNotFoundError("Membership", userID)
	}
	if err := s.memberRepo.MarkRead(ctx, roomID, userID, time.Now().UTC()); err != nil {
		return err
	}
	cache.InvalidateUserRooms(ctx, userID)
	return nil
}

// UnreadCount returns the number of messages created after the caller's read
// watermark (all messages if the watermark is unset).
func (s *ChatService) UnreadCount(ctx context.Context, roomID, userID uint) (int64, error) {
	membership, err := s.memberRepo.Get(ctx, roomID, userID)
	if err != nil {
		return 0, err
	}
	if membership == nil {
		return 0, models.NewNotMemberError(roomID, userID)
	}
	return s.messageRepo.CountAfter(ctx, roomID, membership.LastReadAt)
}

// RoomsForUser returns the rooms the user can currently see, each annotated
// with its unread count. Rooms with a ban in effect are excluded entirely;
// banned_until is authoritative, so a lapsed timed ban makes the room visible
// again without waiting for the lazy clear on send.
func (s *ChatService) RoomsForUser(ctx context.Context, userID uint) ([]*models.Room, error) {
	var rooms []*models.Room
	key := cache.UserRoomsKey(userID)

	// Short TTL: other members' sends bump unread counts without touching
	// this user's cache entry, so the listing may lag by up to the TTL.
	err := cache.Aside(ctx, key, &rooms, cache.UserRoomsTTL, func() error {
		memberships, err := s.memberRepo.ListActiveByUser(ctx, userID, time.Now().UTC())
		if err != nil {
			return err
		}
		rooms = make([]*models.Room, 0, len(memberships))
		for _, m := range memberships {
			if m.Room == nil {
				continue
			}
			count, err := s.messageRepo.CountAfter(ctx, m.RoomID, m.LastReadAt)
			if err != nil {
				return err
			}
			room := m.Room
			room.UnreadCount = count
			rooms = append(rooms, room)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rooms, nil
}

// ListMembers returns all memberships of a room. The caller must be a member.
func (s *ChatService) ListMembers(ctx context.Context, roomID, userID uint) ([]*models.RoomMembership, error) {
	membership, err := s.memberRepo.Get(ctx, roomID, userID)
	if err != nil {
		return nil, err
	}
	if membership == nil {
		return nil, models.NewNotMemberError(roomID, userID)
	}
	return s.memberRepo.ListByRoom(ctx, roomID)
}
