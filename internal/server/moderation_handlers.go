package server

import (
	"time"

	"clubhouse/internal/models"
	"clubhouse/internal/service"

	"github.com/gofiber/fiber/v2"
)

// BanFromRoom handles POST /api/rooms/:id/bans/:userId
func (s *Server) BanFromRoom(c *fiber.Ctx) error {
	ctx := c.UserContext()
	actorID := c.Locals("userID").(uint)
	roomID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	targetID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	var req struct {
		DurationMinutes *int   `json:"duration_minutes,omitempty"`
		Reason          string `json:"reason,omitempty"`
	}
	if len(c.Body()) > 0 {
		if parseErr := c.BodyParser(&req); parseErr != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid request body"))
		}
	}

	var duration *time.Duration
	if req.DurationMinutes != nil {
		if *req.DurationMinutes <= 0 {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("duration_minutes must be positive"))
		}
		d := time.Duration(*req.DurationMinutes) * time.Minute
		duration = &d
	}

	err = s.moderationService.BanFromRoom(ctx, service.RoomBanInput{
		RoomID:   roomID,
		TargetID: targetID,
		ActorID:  actorID,
		Duration: duration,
		Reason:   req.Reason,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// UnbanFromRoom handles DELETE /api/rooms/:id/bans/:userId
func (s *Server) UnbanFromRoom(c *fiber.Ctx) error {
	ctx := c.UserContext()
	actorID := c.Locals("userID").(uint)
	roomID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	targetID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	if err := s.moderationService.UnbanFromRoom(ctx, roomID, targetID, actorID); err != nil {
		return respondServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// GetRoomBans handles GET /api/rooms/:id/bans
func (s *Server) GetRoomBans(c *fiber.Ctx) error {
	ctx := c.UserContext()
	actorID := c.Locals("userID").(uint)
	roomID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	bans, err := s.moderationService.ListRoomBans(ctx, roomID, actorID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(bans)
}

// GlobalBan handles POST /api/moderation/bans/:userId
func (s *Server) GlobalBan(c *fiber.Ctx) error {
	ctx := c.UserContext()
	actorID := c.Locals("userID").(uint)
	targetID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	var req struct {
		Reason string `json:"reason,omitempty"`
	}
	if len(c.Body()) > 0 {
		if parseErr := c.BodyParser(&req); parseErr != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid request body"))
		}
	}

	if err := s.moderationService.GlobalBan(ctx, targetID, actorID, req.Reason); err != nil {
		return respondServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// GlobalUnban handles DELETE /api/moderation/bans/:userId
func (s *Server) GlobalUnban(c *fiber.Ctx) error {
	ctx := c.UserContext()
	targetID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	if err := s.moderationService.GlobalUnban(ctx, targetID); err != nil {
		return respondServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// GetGlobalBans handles GET /api/moderation/bans
func (s *Server) GetGlobalBans(c *fiber.Ctx) error {
	ctx := c.UserContext()

	bans, err := s.moderationService.ListGlobalBans(ctx)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(bans)
}
