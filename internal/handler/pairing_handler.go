package handler

import (
	"pairquiz/internal/dto"
	"pairquiz/internal/service"

	"github.com/gofiber/fiber/v2"
)

// PairingHandler handles partner linking requests.
type PairingHandler struct {
	pairingService service.PairingService
}

// NewPairingHandler creates a new PairingHandler instance.
func NewPairingHandler(pairingService service.PairingService) *PairingHandler {
	return &PairingHandler{pairingService: pairingService}
}

// GenerateCode opens a fresh invite for the caller and returns its code.
func (h *PairingHandler) GenerateCode(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	resp, err := h.pairingService.GenerateLinkingCode(c.Context(), userID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// ClaimCode links the caller into the couple holding the submitted code.
// The three failure modes surface as distinct error codes.
func (h *PairingHandler) ClaimCode(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	var req dto.ClaimRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	resp, err := h.pairingService.ClaimLinkingCode(c.Context(), userID, req.Code)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// GetCouples lists the caller's linked couples with partner profiles.
func (h *PairingHandler) GetCouples(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	resp, err := h.pairingService.GetCouples(c.Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}
