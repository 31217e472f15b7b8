package server

import (
	"clubhouse/internal/models"

	"github.com/gofiber/fiber/v2"
)

// ToggleReaction handles POST /api/messages/:id/reactions
func (s *Server) ToggleReaction(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)
	messageID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Emoji string `json:"emoji"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	reaction, err := s.chatService.ToggleReaction(ctx, messageID, userID, req.Emoji)
	if err != nil {
		return respondServiceError(c, err)
	}

	if reaction == nil {
		// Toggled off
		return c.JSON(fiber.Map{"toggled": "off"})
	}
	return c.Status(fiber.StatusCreated).JSON(reaction)
}

// RemoveReaction handles DELETE /api/reactions/:id
func (s *Server) RemoveReaction(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)
	reactionID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.chatService.RemoveReaction(ctx, reactionID, userID); err != nil {
		return respondServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
