package handler

import (
	"errors"

	"go-storefront-api/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

type AuthHandler struct {
	authService service.AuthService
	store       *session.Store
}

func NewAuthHandler(authService service.AuthService, store *session.Store) *AuthHandler {
	return &AuthHandler{authService: authService, store: store}
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /api/auth/login. On success it opens a server-side
// session (cookie clients) and returns a bearer token (stateless clients).
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid JSON"})
	}

	if req.Email == "" || req.Password == "" {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Email y contraseña son obligatorios"})
	}

	response, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return c.Status(401).JSON(fiber.Map{"success": false, "error": "Credenciales inválidas"})
		}
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Error interno al iniciar sesión."})
	}

	sess, err := h.store.Get(c)
	if err == nil {
		sess.Set("user_id", response.User.ID)
		if err := sess.Save(); err != nil {
			return c.Status(500).JSON(fiber.Map{"success": false, "error": "Error interno al iniciar sesión."})
		}
	}

	return c.JSON(fiber.Map{"success": true, "token": response.Token, "user": response.User})
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	sess, err := h.store.Get(c)
	if err == nil {
		if err := sess.Destroy(); err != nil {
			return c.Status(500).JSON(fiber.Map{"success": false, "error": "Error interno al cerrar sesión."})
		}
	}
	return c.JSON(fiber.Map{"success": true, "message": "Sesión cerrada"})
}

// Me handles GET /api/auth/me (behind RequireAdmin)
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	userID, ok := c.Locals("user_id").(uint)
	if !ok {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": "No autenticado"})
	}

	user, err := h.authService.GetUser(userID)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"success": false, "error": "Usuario no encontrado"})
	}
	return c.JSON(fiber.Map{"success": true, "user": user.ToResponse()})
}
