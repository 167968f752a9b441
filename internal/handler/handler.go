package handler

import (
	"pairquiz/internal/domain"
	"pairquiz/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// requireUserID reads the authenticated user id set by the auth
// middleware. Reaching this without one means the route was wired
// without Protected, which is a programming error surfaced as 401.
func requireUserID(c *fiber.Ctx) (string, error) {
	userID, ok := c.Locals(middleware.UserIDKey).(string)
	if !ok || userID == "" {
		return "", domain.NewNotAuthenticatedError("authentication required")
	}
	return userID, nil
}
