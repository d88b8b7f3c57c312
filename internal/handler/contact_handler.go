package handler

import (
	"errors"
	"log"

	"go-storefront-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ContactHandler struct {
	service service.ContactService
}

func NewContactHandler(s service.ContactService) *ContactHandler {
	return &ContactHandler{service: s}
}

// ContactRequest represents the contact form body
type ContactRequest struct {
	Nombre  string `json:"nombre"`
	Email   string `json:"email"`
	Mensaje string `json:"mensaje"`
}

// SendMessage handles POST /contacto
func (h *ContactHandler) SendMessage(c *fiber.Ctx) error {
	var req ContactRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid JSON"})
	}

	err := h.service.SendMessage(req.Nombre, req.Email, req.Mensaje)
	if err != nil {
		if errors.Is(err, service.ErrMissingContactFields) {
			return c.Status(400).JSON(fiber.Map{"success": false, "error": "Todos los campos son obligatorios."})
		}
		log.Printf("Error: send contact mail: %v", err)
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "No se pudo enviar el correo"})
	}

	return c.JSON(fiber.Map{"success": true})
}
