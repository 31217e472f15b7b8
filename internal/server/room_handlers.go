package server

import (
	"clubhouse/internal/models"
	"clubhouse/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateClubRoom handles POST /api/rooms/club
func (s *Server) CreateClubRoom(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	var req struct {
		ClubID    uint   `json:"club_id"`
		Name      string `json:"name"`
		ManagerID uint   `json:"manager_id,omitempty"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.ClubID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("club_id is required"))
	}

	// The caller manages the club unless another manager is named.
	managerID := req.ManagerID
	if managerID == 0 {
		managerID = userID
	}

	room, err := s.roomService.CreateClubRoom(ctx, service.CreateClubRoomInput{
		ClubID:    req.ClubID,
		Name:      req.Name,
		ManagerID: managerID,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(room)
}

// CreateCoachRoom handles POST /api/rooms/coach
func (s *Server) CreateCoachRoom(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	var req struct {
		CoachID     uint   `json:"coach_id"`
		Name        string `json:"name"`
		CoachUserID uint   `json:"coach_user_id,omitempty"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.CoachID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("coach_id is required"))
	}

	coachUserID := req.CoachUserID
	if coachUserID == 0 {
		coachUserID = userID
	}

	room, err := s.roomService.CreateCoachRoom(ctx, service.CreateCoachRoomInput{
		CoachID:     req.CoachID,
		Name:        req.Name,
		CoachUserID: coachUserID,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(room)
}

// CreateDirectRoom handles POST /api/rooms/direct
func (s *Server) CreateDirectRoom(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	var req struct {
		UserID uint `json:"user_id"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.UserID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("user_id is required"))
	}

	room, err := s.roomService.CreateDirectMessageRoom(ctx, userID, req.UserID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(room)
}

// AddClubMember handles POST /api/rooms/club/:clubId/members
func (s *Server) AddClubMember(c *fiber.Ctx) error {
	ctx := c.UserContext()
	clubID, err := s.parseID(c, "clubId")
	if err != nil {
		return nil
	}

	var req struct {
		UserID uint `json:"user_id"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.UserID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("user_id is required"))
	}

	membership, err := s.roomService.AddMemberToClubRoom(ctx, clubID, req.UserID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(membership)
}

// GetMyRooms handles GET /api/rooms
func (s *Server) GetMyRooms(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	rooms, err := s.chatService.RoomsForUser(ctx, userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(rooms)
}

// GetRoom handles GET /api/rooms/:id
func (s *Server) GetRoom(c *fiber.Ctx) error {
	ctx := c.UserContext()
	roomID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	room, err := s.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(room)
}

// GetRoomMembers handles GET /api/rooms/:id/members
func (s *Server) GetRoomMembers(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)
	roomID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	members, err := s.chatService.ListMembers(ctx, roomID, userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(members)
}

// MarkRoomRead handles POST /api/rooms/:id/read
func (s *Server) MarkRoomRead(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)
	roomID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.chatService.MarkRead(ctx, roomID, userID); err != nil {
		return respondServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// GetUnreadCount handles GET /api/rooms/:id/unread
func (s *Server) GetUnreadCount(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)
	roomID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	count, err := s.chatService.UnreadCount(ctx, roomID, userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"room_id": roomID, "unread_count": count})
}
