package models

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// ErrorResponse represents a standardized API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// Error codes returned by the chat core.
const (
	CodeNotFound       = "NOT_FOUND"
	CodeValidation     = "VALIDATION_ERROR"
	CodeForbidden      = "FORBIDDEN"
	CodeNotMember      = "NOT_MEMBER"
	CodeBanned         = "BANNED"
	CodeGloballyBanned = "GLOBALLY_BANNED"
	CodeAlreadyBanned  = "ALREADY_BANNED"
	CodeNotBanned      = "NOT_BANNED"
	CodeInternal       = "INTERNAL_ERROR"
)

// AppError represents a custom application error
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Predefined error constructors
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s with ID %v not found", resource, id),
	}
}

func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
	}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{
		Code:    CodeForbidden,
		Message: message,
	}
}

// NewNotMemberError indicates the operation requires a room membership that
// does not exist.
func NewNotMemberError(roomID, userID uint) *AppError {
	return &AppError{
		Code:    CodeNotMember,
		Message: fmt.Sprintf("User %d is not a member of room %d", userID, roomID),
	}
}

// NewBannedError indicates the author's room-level ban is still active.
func NewBannedError(roomID uint) *AppError {
	return &AppError{
		Code:    CodeBanned,
		Message: fmt.Sprintf("You are banned from room %d", roomID),
	}
}

// NewGloballyBannedError indicates an active platform-level ban.
func NewGloballyBannedError() *AppError {
	return &AppError{
		Code:    CodeGloballyBanned,
		Message: "You are banned from the platform",
	}
}

func NewAlreadyBannedError(userID uint) *AppError {
	return &AppError{
		Code:    CodeAlreadyBanned,
		Message: fmt.Sprintf("User %d already has an active platform ban", userID),
	}
}

func NewNotBannedError(userID uint) *AppError {
	return &AppError{
		Code:    CodeNotBanned,
		Message: fmt.Sprintf("User %d has no active platform ban", userID),
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: "Internal server error",
		Err:     err,
	}
}

// StatusForError maps an application error to its HTTP status code.
// Unknown errors are treated as internal.
func StatusForError(err error) int {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return fiber.StatusInternalServerError
	}
	switch appErr.Code {
	case CodeNotFound:
		return fiber.StatusNotFound
	case CodeValidation:
		return fiber.StatusBadRequest
	case CodeForbidden, CodeBanned, CodeGloballyBanned, CodeNotMember:
		return fiber.StatusForbidden
	case CodeAlreadyBanned, CodeNotBanned:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// RespondWithError creates a standardized error response
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	var response ErrorResponse

	var appErr *AppError
	if errors.As(err, &appErr) {
		response = ErrorResponse{
			Error: appErr.Message,
			Code:  appErr.Code,
		}
		if appErr.Err != nil {
			response.Details = appErr.Err.Error()
		}
	} else {
		response = ErrorResponse{
			Error: err.Error(),
		}
	}

	return c.Status(status).JSON(response)
}
