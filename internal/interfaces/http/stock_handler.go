package http

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/labquim/labstock-api/internal/application/dto"
	"github.com/labquim/labstock-api/internal/application/ledger"
)

// StockHandler consultas de stock derivado (siempre agregación del libro,
// nunca un número cacheado).
type StockHandler struct {
	query *ledger.StockQueryUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(query *ledger.StockQueryUseCase) *StockHandler {
	return &StockHandler{query: query}
}

// StockAt devuelve el stock derivado de un par (producto, laboratorio).
// Es agregación pura del libro: un par sin filas suma 0, exista o no en el
// catálogo; la existencia se consulta en /api/products y /api/laboratories.
//
// @Summary      Stock de un producto en un laboratorio
// @Tags         stock
// @Produce      json
// @Param        product_id     query  string  true   "código de producto"
// @Param        laboratory_id  query  string  true   "código de laboratorio"
// @Param        as_of          query  string  false  "instante RFC3339; vacío = ahora"
// @Success      200  {object}  dto.StockResponse
// @Router       /api/stock [get]
func (h *StockHandler) StockAt(c *fiber.Ctx) error {
	productID := c.Query("product_id")
	labID := c.Query("laboratory_id")
	if productID == "" || labID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id y laboratory_id son obligatorios"})
	}

	resp := dto.StockResponse{ProductID: productID, LaboratoryID: labID}
	if raw := c.Query("as_of"); raw != "" {
		asOf, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "as_of inválido (RFC3339)"})
		}
		qty, err := h.query.StockAtTime(c.Context(), productID, labID, asOf)
		if err != nil {
			return writeError(c, err)
		}
		resp.Quantity = qty
		resp.AsOf = &asOf
		return c.JSON(resp)
	}

	qty, err := h.query.StockAt(c.Context(), productID, labID)
	if err != nil {
		return writeError(c, err)
	}
	resp.Quantity = qty
	return c.JSON(resp)
}

// LabStock stock por producto dentro de un laboratorio (una query agrupada).
func (h *StockHandler) LabStock(c *fiber.Ctx) error {
	labID := c.Params("id")
	stock, err := h.query.StockMapForLab(c.Context(), labID, productIDsQuery(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.StockMapResponse{LaboratoryID: labID, Stock: stock})
}

// GlobalStock stock global por producto (todos los laboratorios).
func (h *StockHandler) GlobalStock(c *fiber.Ctx) error {
	stock, err := h.query.GlobalStockMap(c.Context(), productIDsQuery(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.StockMapResponse{Stock: stock})
}

// StockByLab stock por producto y por laboratorio (dónde está físicamente).
func (h *StockHandler) StockByLab(c *fiber.Ctx) error {
	stock, err := h.query.StockByLabMap(c.Context(), productIDsQuery(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.StockByLabResponse{Stock: stock})
}

// productIDsQuery lee el filtro opcional ?product_ids=A,B,C.
func productIDsQuery(c *fiber.Ctx) []string {
	raw := c.Query("product_ids")
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			ids = append(ids, p)
		}
	}
	return ids
}
