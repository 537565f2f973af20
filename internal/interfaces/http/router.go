package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/labquim/labstock-api/internal/application/catalog"
	"github.com/labquim/labstock-api/internal/application/ledger"
	"github.com/labquim/labstock-api/internal/application/report"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	RegisterMovement *ledger.RegisterMovementUseCase
	ReverseMovement  *ledger.ReverseMovementUseCase
	StockQuery       *ledger.StockQueryUseCase
	Kardex           *report.KardexUseCase
	ProductUC        *catalog.ProductUseCase
	LaboratoryUC     *catalog.LaboratoryUseCase
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Libro de movimientos
	movementHandler := NewMovementHandler(deps.RegisterMovement, deps.ReverseMovement, deps.StockQuery)
	movements := api.Group("/movements")
	movements.Post("/", movementHandler.Register)
	movements.Get("/", movementHandler.List)
	movements.Get("/:id", movementHandler.GetByID)
	movements.Post("/:id/reverse", movementHandler.Reverse)

	// Stock derivado
	stockHandler := NewStockHandler(deps.StockQuery)
	stock := api.Group("/stock")
	stock.Get("/", stockHandler.StockAt)
	stock.Get("/global", stockHandler.GlobalStock)
	stock.Get("/by-lab", stockHandler.StockByLab)

	// Reportes
	reportHandler := NewReportHandler(deps.Kardex)
	api.Get("/reports/kardex", reportHandler.Kardex)

	// Catálogo: productos
	productHandler := NewProductHandler(deps.ProductUC)
	products := api.Group("/products")
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	// Catálogo: laboratorios
	laboratoryHandler := NewLaboratoryHandler(deps.LaboratoryUC)
	labs := api.Group("/laboratories")
	labs.Post("/", laboratoryHandler.Create)
	labs.Get("/", laboratoryHandler.List)
	labs.Get("/:id", laboratoryHandler.GetByID)
	labs.Put("/:id", laboratoryHandler.Update)
	labs.Delete("/:id", laboratoryHandler.Delete)
	labs.Get("/:id/stock", stockHandler.LabStock)
}
