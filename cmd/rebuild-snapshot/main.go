package main

import (
	"context"
	"time"

	"github.com/labquim/labstock-api/internal/infrastructure/postgres"
	"github.com/labquim/labstock-api/pkg/config"
	"github.com/labquim/labstock-api/pkg/logger"
)

// Reconstruye la tabla materializada stock_snapshot desde el libro de
// movimientos. Es la única escritura posible sobre el snapshot: ninguna ruta
// de requests lo toca, así no puede divergir del libro salvo por atraso.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	start := time.Now()
	rows, err := postgres.NewSnapshotRepository(pool).Rebuild(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("reconstrucción del snapshot")
	}
	log.Info().
		Int64("pairs", rows).
		Dur("elapsed", time.Since(start)).
		Msg("snapshot reconstruido desde el libro")
}
