package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/labquim/labstock-api/internal/application/catalog"
	"github.com/labquim/labstock-api/internal/application/ledger"
	"github.com/labquim/labstock-api/internal/application/report"
	"github.com/labquim/labstock-api/internal/infrastructure/postgres"
	httpRouter "github.com/labquim/labstock-api/internal/interfaces/http"
	"github.com/labquim/labstock-api/pkg/config"
	"github.com/labquim/labstock-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Repositorios sobre el pool (lecturas) y runner transaccional (débitos
	// y traslados: validar+insertar es una sola tx con lock por par).
	productRepo := postgres.NewProductRepository(pool)
	labRepo := postgres.NewLaboratoryRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	stockRepo := postgres.NewStockRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	registerUC := ledger.NewRegisterMovementUseCase(txRunner, productRepo, labRepo)
	reverseUC := ledger.NewReverseMovementUseCase(txRunner)
	stockQueryUC := ledger.NewStockQueryUseCase(stockRepo, movementRepo)
	kardexUC := report.NewKardexUseCase(movementRepo, stockRepo)
	productUC := catalog.NewProductUseCase(productRepo, movementRepo)
	laboratoryUC := catalog.NewLaboratoryUseCase(labRepo, movementRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "LabStock API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		RegisterMovement: registerUC,
		ReverseMovement:  reverseUC,
		StockQuery:       stockQueryUC,
		Kardex:           kardexUC,
		ProductUC:        productUC,
		LaboratoryUC:     laboratoryUC,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
