package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/labquim/labstock-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo motor de derivación de stock sobre PostgreSQL (usable con pool o
// tx). Todas las consultas agregan el libro de movimientos en una sola query
// agrupada: nunca hay estado mutable cacheado ni N queries por producto.
// Las sumas corren sobre NUMERIC en el servidor; nada pasa por float binario.
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// signedQuantity créditos (RECEIPT, PURCHASE) suman; débitos (CONSUMPTION,
// TRANSFER) restan. Match exhaustivo sobre el tipo cerrado de kind.
const signedQuantity = `CASE WHEN kind IN ('RECEIPT', 'PURCHASE') THEN quantity ELSE -quantity END`

// StockAt stock actual de un producto en un laboratorio.
func (r *StockRepo) StockAt(ctx context.Context, productID, labID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(` + signedQuantity + `), 0)
		FROM movements
		WHERE product_id = $1 AND laboratory_id = $2`
	var qty decimal.Decimal
	if err := r.q.QueryRow(ctx, query, productID, labID).Scan(&qty); err != nil {
		return decimal.Zero, fmt.Errorf("stock at: %w", err)
	}
	return qty, nil
}

// StockAtTime stock sumando los movimientos con timestamp anterior a asOf.
func (r *StockRepo) StockAtTime(ctx context.Context, productID, labID string, asOf time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(` + signedQuantity + `), 0)
		FROM movements
		WHERE product_id = $1 AND laboratory_id = $2 AND ts < $3`
	var qty decimal.Decimal
	if err := r.q.QueryRow(ctx, query, productID, labID, asOf).Scan(&qty); err != nil {
		return decimal.Zero, fmt.Errorf("stock at time: %w", err)
	}
	return qty, nil
}

// StockMapForLab stock por producto dentro de un laboratorio, en una sola
// query agrupada. productIDs vacío = todos los productos con movimientos.
func (r *StockRepo) StockMapForLab(ctx context.Context, labID string, productIDs []string) (map[string]decimal.Decimal, error) {
	query := `
		SELECT product_id, COALESCE(SUM(` + signedQuantity + `), 0)
		FROM movements
		WHERE laboratory_id = $1`
	args := []any{labID}
	if len(productIDs) > 0 {
		query += ` AND product_id = ANY($2)`
		args = append(args, productIDs)
	}
	query += ` GROUP BY product_id`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("stock map for lab: %w", err)
	}
	defer rows.Close()

	result := make(map[string]decimal.Decimal)
	for rows.Next() {
		var productID string
		var qty decimal.Decimal
		if err := rows.Scan(&productID, &qty); err != nil {
			return nil, fmt.Errorf("scan stock map: %w", err)
		}
		result[productID] = qty
	}
	return result, rows.Err()
}

// GlobalStockMap stock global por producto (suma sobre todos los laboratorios).
func (r *StockRepo) GlobalStockMap(ctx context.Context, productIDs []string) (map[string]decimal.Decimal, error) {
	query := `
		SELECT product_id, COALESCE(SUM(` + signedQuantity + `), 0)
		FROM movements`
	args := []any{}
	if len(productIDs) > 0 {
		query += ` WHERE product_id = ANY($1)`
		args = append(args, productIDs)
	}
	query += ` GROUP BY product_id`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("global stock map: %w", err)
	}
	defer rows.Close()

	result := make(map[string]decimal.Decimal)
	for rows.Next() {
		var productID string
		var qty decimal.Decimal
		if err := rows.Scan(&productID, &qty); err != nil {
			return nil, fmt.Errorf("scan global stock: %w", err)
		}
		result[productID] = qty
	}
	return result, rows.Err()
}

// StockByLabMap stock por producto y por laboratorio (doble agrupación).
func (r *StockRepo) StockByLabMap(ctx context.Context, productIDs []string) (map[string]map[string]decimal.Decimal, error) {
	query := `
		SELECT product_id, laboratory_id, COALESCE(SUM(` + signedQuantity + `), 0)
		FROM movements`
	args := []any{}
	if len(productIDs) > 0 {
		query += ` WHERE product_id = ANY($1)`
		args = append(args, productIDs)
	}
	query += ` GROUP BY product_id, laboratory_id`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("stock by lab map: %w", err)
	}
	defer rows.Close()

	result := make(map[string]map[string]decimal.Decimal)
	for rows.Next() {
		var productID, labID string
		var qty decimal.Decimal
		if err := rows.Scan(&productID, &labID, &qty); err != nil {
			return nil, fmt.Errorf("scan stock by lab: %w", err)
		}
		byLab, ok := result[productID]
		if !ok {
			byLab = make(map[string]decimal.Decimal)
			result[productID] = byLab
		}
		byLab[labID] = qty
	}
	return result, rows.Err()
}

// LockPair toma un lock consultivo transaccional sobre (producto, laboratorio).
// Se libera solo en el Commit/Rollback, así el chequeo de stock y el insert
// del débito son indivisibles frente a débitos concurrentes sobre el mismo par.
func (r *StockRepo) LockPair(ctx context.Context, productID, labID string) error {
	_, err := r.q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, productID+"/"+labID)
	if err != nil {
		return fmt.Errorf("lock pair: %w", mapError(err))
	}
	return nil
}
