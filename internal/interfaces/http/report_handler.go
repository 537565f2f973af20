package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/labquim/labstock-api/internal/application/dto"
	"github.com/labquim/labstock-api/internal/application/report"
)

// ReportHandler reportes de auditoría sobre el libro.
type ReportHandler struct {
	kardex *report.KardexUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(kardex *report.KardexUseCase) *ReportHandler {
	return &ReportHandler{kardex: kardex}
}

// Kardex godoc
// @Summary      Kardex: movimientos con saldo corrido en una ventana
// @Tags         reports
// @Produce      json
// @Param        product_id     query  string  true  "código de producto"
// @Param        laboratory_id  query  string  true  "código de laboratorio"
// @Param        from           query  string  true  "inicio RFC3339"
// @Param        to             query  string  true  "fin RFC3339"
// @Success      200  {object}  dto.KardexResponse
// @Router       /api/reports/kardex [get]
func (h *ReportHandler) Kardex(c *fiber.Ctx) error {
	from, err := time.Parse(time.RFC3339, c.Query("from"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from inválido (RFC3339)"})
	}
	to, err := time.Parse(time.RFC3339, c.Query("to"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to inválido (RFC3339)"})
	}
	result, err := h.kardex.Kardex(c.Context(), c.Query("product_id"), c.Query("laboratory_id"), from, to)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ToKardexResponse(result))
}
