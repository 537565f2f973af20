package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// StockRepository define el puerto del motor de derivación de stock.
// Ninguna consulta lee estado mutable cacheado: todas agregan el libro de
// movimientos (créditos menos débitos) en una sola query agrupada, por lo que
// dos llamadas sin mutación intermedia devuelven exactamente lo mismo.
type StockRepository interface {
	// StockAt stock actual de un producto en un laboratorio.
	StockAt(ctx context.Context, productID, labID string) (decimal.Decimal, error)
	// StockAtTime stock a un instante dado (suma de los movimientos con
	// timestamp anterior a asOf).
	StockAtTime(ctx context.Context, productID, labID string, asOf time.Time) (decimal.Decimal, error)
	// StockMapForLab stock por producto dentro de un laboratorio, en una sola
	// query agrupada (nunca N queries por producto). productIDs vacío = todos.
	StockMapForLab(ctx context.Context, labID string, productIDs []string) (map[string]decimal.Decimal, error)
	// GlobalStockMap stock global por producto (todos los laboratorios).
	GlobalStockMap(ctx context.Context, productIDs []string) (map[string]decimal.Decimal, error)
	// StockByLabMap stock por producto y por laboratorio (doble agrupación),
	// para mostrar dónde está físicamente el stock.
	StockByLabMap(ctx context.Context, productIDs []string) (map[string]map[string]decimal.Decimal, error)
	// LockPair serializa los débitos concurrentes sobre (producto, laboratorio)
	// durante la transacción en curso. Debe llamarse antes de validar stock
	// para un débito; cierra la carrera check-then-insert.
	LockPair(ctx context.Context, productID, labID string) error
}
