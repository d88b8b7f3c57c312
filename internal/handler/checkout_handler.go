package handler

import (
	"errors"
	"fmt"
	"log"

	"go-storefront-api/internal/ledger"

	"github.com/gofiber/fiber/v2"
)

type CheckoutHandler struct {
	ledger *ledger.Ledger
}

func NewCheckoutHandler(l *ledger.Ledger) *CheckoutHandler {
	return &CheckoutHandler{ledger: l}
}

// stockLine is one element of the checkout body. The legacy frontend
// sends {"nombre","cantidad"}; newer clients send {"producto_id","cantidad"}.
type stockLine struct {
	ProductoID uint   `json:"producto_id"`
	Nombre     string `json:"nombre"`
	Cantidad   int    `json:"cantidad"`
}

// UpdateStock handles POST /api/actualizar-stock
func (h *CheckoutHandler) UpdateStock(c *fiber.Ctx) error {
	var lines []stockLine
	if err := c.BodyParser(&lines); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "No se recibió el carrito."})
	}

	cart := make([]ledger.CartLine, len(lines))
	for i, line := range lines {
		cart[i] = ledger.CartLine{
			ProductID: line.ProductoID,
			Name:      line.Nombre,
			Quantity:  line.Cantidad,
		}
	}

	err := h.ledger.SettleCart(c.UserContext(), cart)
	if err == nil {
		return c.JSON(fiber.Map{"success": true, "message": "Stock actualizado correctamente."})
	}

	var insufficient *ledger.InsufficientStockError
	var notFound *ledger.NotFoundError
	var invalidLine *ledger.InvalidLineError

	switch {
	case errors.Is(err, ledger.ErrEmptyCart):
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "No se recibió el carrito."})
	case errors.As(err, &invalidLine):
		return c.Status(400).JSON(fiber.Map{"success": false, "error": fmt.Sprintf("Línea %d del carrito inválida", invalidLine.Line)})
	case errors.As(err, &insufficient):
		return c.Status(400).JSON(fiber.Map{"success": false, "error": fmt.Sprintf("Stock insuficiente para %s", insufficient.Name)})
	case errors.As(err, &notFound):
		return c.Status(404).JSON(fiber.Map{"success": false, "error": fmt.Sprintf("Producto no encontrado: %s", notFound.Ref)})
	default:
		log.Printf("Error: settle cart: %v", err)
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Error interno al actualizar el stock."})
	}
}
