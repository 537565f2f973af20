package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/labquim/labstock-api/internal/application/catalog"
	"github.com/labquim/labstock-api/internal/application/dto"
)

// LaboratoryHandler catálogo de laboratorios.
type LaboratoryHandler struct {
	uc *catalog.LaboratoryUseCase
}

// NewLaboratoryHandler construye el handler.
func NewLaboratoryHandler(uc *catalog.LaboratoryUseCase) *LaboratoryHandler {
	return &LaboratoryHandler{uc: uc}
}

// Create alta de laboratorio.
func (h *LaboratoryHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateLaboratoryRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	lab := in.ToLaboratoryEntity()
	if err := h.uc.Create(c.Context(), lab); err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToLaboratoryResponse(lab))
}

// GetByID devuelve un laboratorio por código.
func (h *LaboratoryHandler) GetByID(c *fiber.Ctx) error {
	lab, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ToLaboratoryResponse(lab))
}

// Update edita un laboratorio.
func (h *LaboratoryHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateLaboratoryRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	lab, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	lab.Name = in.Name
	lab.Address = in.Address
	lab.Phone = in.Phone
	lab.Email = in.Email
	lab.FolderID = in.FolderID
	lab.MovementsFolderID = in.MovementsFolderID
	if err := h.uc.Update(c.Context(), lab); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ToLaboratoryResponse(lab))
}

// List lista laboratorios.
func (h *LaboratoryHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "query inválida"})
	}
	page.DefaultPage()
	labs, err := h.uc.List(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.LaboratoryListResponse{
		Items: dto.ToLaboratoryResponses(labs),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	})
}

// Delete elimina un laboratorio sin movimientos que lo referencien.
func (h *LaboratoryHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
