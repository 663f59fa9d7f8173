package middleware

import (
	"errors"

	"skill-compass/internal/domain/user"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type AdminMiddleware struct {
	users user.Repository
}

func NewAdminMiddleware(users user.Repository) *AdminMiddleware {
	return &AdminMiddleware{users: users}
}

// Middleware runs after AuthMiddleware and checks the caller's role against
// the stored user, so a stale token never grants admin access.
func (m *AdminMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		userID, ok := UserIDFromCtx(c)
		if !ok || userID == uuid.Nil {
			return NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
		}

		u, err := m.users.GetByID(c.Context(), userID)
		if err != nil {
			if errors.Is(err, user.ErrNotFound) {
				return NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, err)
			}
			return NewAppError(fiber.StatusInternalServerError, "", nil, err)
		}
		if !u.IsAdmin() {
			return NewAppError(fiber.StatusForbidden, "Not enough permissions", nil, nil)
		}

		return c.Next()
	}
}
