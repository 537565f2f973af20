package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/labquim/labstock-api/internal/domain/repository"
)

var _ repository.SnapshotRepository = (*SnapshotRepo)(nil)

// SnapshotRepo regenera la tabla materializada stock_snapshot desde el libro.
// El snapshot es solo una ayuda de performance para reportes externos: ninguna
// ruta de requests lo escribe ni lo trata como fuente de verdad; la única
// escritura posible es esta reconstrucción total.
type SnapshotRepo struct {
	pool *pgxpool.Pool
}

// NewSnapshotRepository construye el adaptador sobre el pool (abre su propia tx).
func NewSnapshotRepository(pool *pgxpool.Pool) *SnapshotRepo {
	return &SnapshotRepo{pool: pool}
}

// Rebuild trunca y repuebla stock_snapshot en una sola transacción, agregando
// el libro completo. Devuelve la cantidad de pares (producto, laboratorio).
func (r *SnapshotRepo) Rebuild(ctx context.Context) (int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin rebuild: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `TRUNCATE stock_snapshot`); err != nil {
		return 0, fmt.Errorf("truncate snapshot: %w", err)
	}
	tag, err := tx.Exec(ctx, `
		INSERT INTO stock_snapshot (product_id, laboratory_id, quantity, rebuilt_at)
		SELECT product_id, laboratory_id,
		       SUM(`+signedQuantity+`),
		       now()
		FROM movements
		GROUP BY product_id, laboratory_id`)
	if err != nil {
		return 0, fmt.Errorf("rebuild snapshot: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit rebuild: %w", err)
	}
	return tag.RowsAffected(), nil
}
