package auth

import (
	"strings"

	"github.com/Kyz7/microblog/internal/session"
	"github.com/gofiber/fiber/v2"
)

// Auth is the session-verification strategy in use: the real manager, or
// the fixed-user bypass when AUTH_DISABLED is set. Chosen once in Setup,
// never branched on here.
var Auth session.Verifier

func SetVerifier(v session.Verifier) {
	Auth = v
}

// Protected extracts the bearer token and hands it to the verifier. An
// absent or malformed header yields an empty token, which the real
// verifier rejects and the bypass verifier accepts.
func Protected() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var tokenStr string
		authHeader := c.Get("Authorization")
		if parts := strings.Split(authHeader, " "); len(parts) == 2 && parts[0] == "Bearer" {
			tokenStr = parts[1]
		}

		userID, err := Auth.Authenticate(tokenStr)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error": fiber.Map{
					"code":    "UNAUTHORIZED",
					"message": "Invalid or expired token",
				},
			})
		}

		c.Locals("user_id", userID)
		return c.Next()
	}
}
