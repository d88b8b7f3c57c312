package handler

import (
	"errors"

	"go-storefront-api/internal/model"
	"go-storefront-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type CatalogHandler struct {
	service service.CatalogService
}

func NewCatalogHandler(s service.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: s}
}

// GetProducts handles GET /api/productos
func (h *CatalogHandler) GetProducts(c *fiber.Ctx) error {
	products, err := h.service.ListProducts(c.UserContext())
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Error interno al leer el catálogo."})
	}
	return c.JSON(products)
}

// GetProduct handles GET /api/productos/:id
func (h *CatalogHandler) GetProduct(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "ID de producto inválido"})
	}

	product, err := h.service.GetProduct(c.UserContext(), uint(id))
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			return c.Status(404).JSON(fiber.Map{"success": false, "error": "Producto no encontrado"})
		}
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Error interno al leer el producto."})
	}
	return c.JSON(product)
}

// CreateProduct handles POST /api/productos
func (h *CatalogHandler) CreateProduct(c *fiber.Ctx) error {
	var product model.Product
	if err := c.BodyParser(&product); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid JSON"})
	}

	if err := h.service.CreateProduct(c.UserContext(), &product); err != nil {
		switch {
		case errors.Is(err, service.ErrNameTaken):
			return c.Status(400).JSON(fiber.Map{"success": false, "error": "Ya existe un producto con ese nombre"})
		case errors.Is(err, service.ErrInvalidProduct):
			return c.Status(400).JSON(fiber.Map{"success": false, "error": err.Error()})
		default:
			return c.Status(500).JSON(fiber.Map{"success": false, "error": "Error interno al crear el producto."})
		}
	}

	return c.Status(201).JSON(fiber.Map{"success": true, "message": "Producto creado", "data": product})
}

// UpdateProduct handles PUT /api/productos/:id
func (h *CatalogHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "ID de producto inválido"})
	}

	var product model.Product
	if err := c.BodyParser(&product); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid JSON"})
	}

	updated, err := h.service.UpdateProduct(c.UserContext(), uint(id), &product)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			return c.Status(404).JSON(fiber.Map{"success": false, "error": "Producto no encontrado"})
		case errors.Is(err, service.ErrInvalidProduct):
			return c.Status(400).JSON(fiber.Map{"success": false, "error": err.Error()})
		default:
			return c.Status(500).JSON(fiber.Map{"success": false, "error": "Error interno al actualizar el producto."})
		}
	}

	return c.JSON(fiber.Map{"success": true, "message": "Producto actualizado", "data": updated})
}

// DeleteProduct handles DELETE /api/productos/:id
func (h *CatalogHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "ID de producto inválido"})
	}

	if err := h.service.DeleteProduct(c.UserContext(), uint(id)); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			return c.Status(404).JSON(fiber.Map{"success": false, "error": "Producto no encontrado"})
		}
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Error interno al eliminar el producto."})
	}

	return c.JSON(fiber.Map{"success": true, "message": "Producto eliminado"})
}

// UploadImage handles POST /api/productos/:id/imagenes
func (h *CatalogHandler) UploadImage(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "ID de producto inválido"})
	}

	fileHeader, err := c.FormFile("imagen")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Falta el archivo 'imagen'"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "No se pudo leer el archivo"})
	}
	defer file.Close()

	image, err := h.service.AttachImage(
		c.UserContext(),
		uint(id),
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		file,
	)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			return c.Status(404).JSON(fiber.Map{"success": false, "error": "Producto no encontrado"})
		case errors.Is(err, service.ErrBadImageFormat):
			return c.Status(400).JSON(fiber.Map{"success": false, "error": "Formato de imagen no soportado"})
		default:
			return c.Status(500).JSON(fiber.Map{"success": false, "error": "Error interno al subir la imagen."})
		}
	}

	return c.Status(201).JSON(fiber.Map{"success": true, "message": "Imagen subida", "data": image})
}

// DeleteImage handles DELETE /api/imagenes/:id
func (h *CatalogHandler) DeleteImage(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "ID de imagen inválido"})
	}

	if err := h.service.DeleteImage(c.UserContext(), uint(id)); err != nil {
		if errors.Is(err, service.ErrImageNotFound) {
			return c.Status(404).JSON(fiber.Map{"success": false, "error": "Imagen no encontrada"})
		}
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Error interno al eliminar la imagen."})
	}

	return c.JSON(fiber.Map{"success": true, "message": "Imagen eliminada"})
}
