package http

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/labquim/labstock-api/internal/application/dto"
	"github.com/labquim/labstock-api/internal/application/ledger"
	"github.com/labquim/labstock-api/internal/domain/entity"
	"github.com/labquim/labstock-api/internal/domain/repository"
)

// MovementHandler maneja las peticiones HTTP del libro de movimientos.
type MovementHandler struct {
	register *ledger.RegisterMovementUseCase
	reverse  *ledger.ReverseMovementUseCase
	query    *ledger.StockQueryUseCase
}

// NewMovementHandler construye el handler.
func NewMovementHandler(
	register *ledger.RegisterMovementUseCase,
	reverse *ledger.ReverseMovementUseCase,
	query *ledger.StockQueryUseCase,
) *MovementHandler {
	return &MovementHandler{register: register, reverse: reverse, query: query}
}

// Register godoc
// @Summary      Registrar movimiento del libro
// @Tags         movements
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "product_id, laboratory_id, kind, quantity, unit (+ destination_lab_id para TRANSFER, metadatos para PURCHASE)"
// @Success      201   {object}  dto.MovementListResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/movements [post]
func (h *MovementHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	created, err := h.register.RegisterMovement(c.Context(), ledger.MovementInput{
		UserID:           c.Get("X-User-ID"),
		ProductID:        in.ProductID,
		LaboratoryID:     in.LaboratoryID,
		DestinationLabID: in.DestinationLabID,
		Kind:             entity.MovementKind(in.Kind),
		Quantity:         in.Quantity,
		Unit:             in.Unit,
		DocumentType:     in.DocumentType,
		DocumentNumber:   in.DocumentNumber,
		InvoiceDate:      in.InvoiceDate,
		SupplierID:       in.SupplierID,
		AttachmentRef:    in.AttachmentRef,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"items": dto.ToMovementResponses(created)})
}

// Reverse godoc
// @Summary      Compensar (revertir) un movimiento comprometido
// @Tags         movements
// @Produce      json
// @Success      201  {object}  dto.MovementListResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/movements/{id}/reverse [post]
func (h *MovementHandler) Reverse(c *fiber.Ctx) error {
	created, err := h.reverse.Reverse(c.Context(), c.Params("id"), c.Get("X-User-ID"))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"items": dto.ToMovementResponses(created)})
}

// List lista filas del libro (filtros: product_id, laboratory_id, kind, from,
// to). kind acepta una lista separada por comas (RECEIPT,CONSUMPTION) para
// pedir varios tipos en una sola consulta.
func (h *MovementHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "query inválida"})
	}
	page.DefaultPage()

	filter := repository.MovementFilter{
		ProductID:    c.Query("product_id"),
		LaboratoryID: c.Query("laboratory_id"),
	}
	for _, part := range strings.Split(c.Query("kind"), ",") {
		if part = strings.TrimSpace(part); part == "" {
			continue
		}
		k := entity.MovementKind(part)
		if !k.Valid() {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "kind inválido"})
		}
		filter.Kinds = append(filter.Kinds, k)
	}
	var err error
	if filter.From, err = parseTimeQuery(c, "from"); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from inválido (RFC3339)"})
	}
	if filter.To, err = parseTimeQuery(c, "to"); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to inválido (RFC3339)"})
	}

	rows, err := h.query.Movements(c.Context(), filter, page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MovementListResponse{
		Items: dto.ToMovementResponses(rows),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	})
}

// GetByID una fila puntual del libro.
func (h *MovementHandler) GetByID(c *fiber.Ctx) error {
	m, err := h.query.Movement(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	if m == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "movimiento no encontrado"})
	}
	return c.JSON(dto.ToMovementResponse(m))
}

// parseTimeQuery parsea un query param RFC3339 opcional.
func parseTimeQuery(c *fiber.Ctx, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
