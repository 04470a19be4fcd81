package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"cv-builder/internal/repositories"
	apperrors "cv-builder/pkg/errors"
)

const userIDKey = "userID"

// RequireSession resolves the bearer token to an authenticated user before
// any pipeline work begins. No user means a terminal 401; handlers behind
// this middleware can rely on currentUserID succeeding.
func RequireSession(sessionRepo repositories.SessionRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return respondError(c, apperrors.New(apperrors.KindUnauthenticated, "authentication required"))
		}
		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if token == "" {
			return respondError(c, apperrors.New(apperrors.KindUnauthenticated, "authentication required"))
		}

		session, err := sessionRepo.FindByToken(token)
		if err != nil {
			return respondError(c, apperrors.New(apperrors.KindUnauthenticated, "invalid session"))
		}
		if session.Expired() {
			return respondError(c, apperrors.New(apperrors.KindUnauthenticated, "session expired"))
		}

		c.Locals(userIDKey, session.UserID)
		return c.Next()
	}
}

func currentUserID(c *fiber.Ctx) (uuid.UUID, error) {
	id, ok := c.Locals(userIDKey).(uuid.UUID)
	if !ok {
		return uuid.Nil, apperrors.New(apperrors.KindUnauthenticated, "authentication required")
	}
	return id, nil
}
