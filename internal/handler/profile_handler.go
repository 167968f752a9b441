package handler

import (
	"pairquiz/internal/dto"
	"pairquiz/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ProfileHandler handles profile requests for the authenticated user.
type ProfileHandler struct {
	profileService service.ProfileService
}

// NewProfileHandler creates a new ProfileHandler instance.
func NewProfileHandler(profileService service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// GetMe returns the caller's profile.
func (h *ProfileHandler) GetMe(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	resp, err := h.profileService.GetProfile(c.Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// UpdateMe sets the caller's display names.
func (h *ProfileHandler) UpdateMe(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	resp, err := h.profileService.UpdateProfile(c.Context(), userID, &req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}
