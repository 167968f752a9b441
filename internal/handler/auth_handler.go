package handler

import (
	"errors"

	"pairquiz/internal/dto"
	"pairquiz/internal/logger"
	"pairquiz/internal/middleware"
	"pairquiz/internal/service"
	"pairquiz/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AuthHandler handles passwordless authentication requests.
type AuthHandler struct {
	authService service.AuthService
	validator   *validation.Validator
}

// NewAuthHandler creates a new AuthHandler instance.
func NewAuthHandler(authService service.AuthService, validator *validation.Validator) *AuthHandler {
	return &AuthHandler{authService: authService, validator: validator}
}

// RequestOTP mails a one-time login code to the given address. The
// response is the same whether or not the address has an account, so the
// endpoint cannot be used to probe for registered emails.
func (h *AuthHandler) RequestOTP(c *fiber.Ctx) error {
	var req dto.OTPRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if errs := h.validator.ValidateEmail(req.Email); len(errs) > 0 {
		return errs
	}

	if err := h.authService.RequestOTP(c.Context(), req.Email); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "code sent"})
}

// VerifyOTP exchanges a mailed code for a JWT pair.
func (h *AuthHandler) VerifyOTP(c *fiber.Ctx) error {
	var req dto.OTPVerifyRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if errs := h.validator.ValidateOTPVerify(&req); len(errs) > 0 {
		return errs
	}

	tokens, user, err := h.authService.VerifyOTP(c.Context(), req.Email, req.Code)
	if err != nil {
		if errors.Is(err, service.ErrInvalidOTP) {
			return c.Status(fiber.StatusUnauthorized).JSON(middleware.ErrorResponse{
				Code:    "INVALID_OTP",
				Message: "Invalid or expired one-time code",
				Status:  fiber.StatusUnauthorized,
			})
		}
		return err
	}

	logger.Get().Info("Login succeeded", zap.String("userID", user.ID))
	return c.JSON(tokens)
}

// Refresh exchanges a valid refresh token for a new pair.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.RefreshToken == "" {
		return fiber.NewError(fiber.StatusBadRequest, "refresh_token is required")
	}

	tokens, err := h.authService.RefreshToken(c.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, service.ErrInvalidJWTToken) {
			return c.Status(fiber.StatusUnauthorized).JSON(middleware.ErrorResponse{
				Code:    "INVALID_TOKEN",
				Message: "Invalid refresh token",
				Status:  fiber.StatusUnauthorized,
			})
		}
		return err
	}
	return c.JSON(tokens)
}

// Logout acknowledges the logout. Tokens are stateless, so the client
// discards them; nothing is invalidated server-side.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	return c.JSON(dto.MessageResponse{Message: "logged out"})
}
