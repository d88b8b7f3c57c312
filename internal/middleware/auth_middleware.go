package middleware

import (
	"strings"

	"go-storefront-api/internal/repository"
	"go-storefront-api/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

// RequireAdmin authenticates the caller via server-side session cookie
// or bearer JWT, then checks the admin role flag once at the boundary.
// Downstream handlers never re-check authorization.
func RequireAdmin(store *session.Store, userRepo repository.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := userFromSession(c, store)
		if !ok {
			userID, ok = userFromBearer(c)
		}
		if !ok {
			return c.Status(401).JSON(fiber.Map{"success": false, "error": "No autenticado"})
		}

		user, err := userRepo.FindByID(userID)
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"success": false, "error": "No autenticado"})
		}
		if !user.IsAdmin {
			return c.Status(403).JSON(fiber.Map{"success": false, "error": "Se requiere rol de administrador"})
		}

		c.Locals("user_id", user.ID)
		c.Locals("user_email", user.Email)
		return c.Next()
	}
}

func userFromSession(c *fiber.Ctx, store *session.Store) (uint, bool) {
	sess, err := store.Get(c)
	if err != nil {
		return 0, false
	}
	id, ok := sess.Get("user_id").(uint)
	if !ok || id == 0 {
		return 0, false
	}
	return id, true
}

func userFromBearer(c *fiber.Ctx) (uint, bool) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return 0, false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return 0, false
	}

	claims, err := jwt.ValidateToken(parts[1])
	if err != nil {
		return 0, false
	}
	return claims.UserID, true
}
