package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/labquim/labstock-api/internal/application/catalog"
	"github.com/labquim/labstock-api/internal/application/dto"
)

// ProductHandler catálogo de productos.
type ProductHandler struct {
	uc *catalog.ProductUseCase
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *catalog.ProductUseCase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

// Create alta de producto.
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	p := in.ToProductEntity()
	if err := h.uc.Create(c.Context(), p); err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToProductResponse(p))
}

// GetByID devuelve un producto por código.
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	p, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ToProductResponse(p))
}

// Update edita un producto.
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	p, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	p.Name = in.Name
	p.Description = in.Description
	p.Category = in.Category
	p.PhysicalState = in.PhysicalState
	p.Controlled = in.Controlled
	p.SafetySheetURL = in.SafetySheetURL
	p.Unit = in.Unit
	p.ReorderThreshold = in.ReorderThreshold
	if err := h.uc.Update(c.Context(), p); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ToProductResponse(p))
}

// List lista productos; con ?q= busca por nombre sin distinguir tildes.
func (h *ProductHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "query inválida"})
	}
	page.DefaultPage()

	var items []dto.ProductResponse
	if q := c.Query("q"); q != "" {
		found, err := h.uc.Search(c.Context(), q, page.Limit, page.Offset)
		if err != nil {
			return writeError(c, err)
		}
		items = dto.ToProductResponses(found)
	} else {
		listed, err := h.uc.List(c.Context(), page.Limit, page.Offset)
		if err != nil {
			return writeError(c, err)
		}
		items = dto.ToProductResponses(listed)
	}
	return c.JSON(dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	})
}

// Delete elimina un producto sin movimientos en el libro.
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
