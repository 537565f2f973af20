package repository

import "context"

// SnapshotRepository reconstruye la tabla materializada stock_snapshot.
// La tabla existe solo por razones de performance: jamás se escribe desde el
// manejo de requests y jamás es fuente de verdad; se regenera
// determinísticamente desde el libro de movimientos.
type SnapshotRepository interface {
	// Rebuild trunca y repuebla el snapshot desde el libro en una sola
	// transacción. Devuelve la cantidad de pares (producto, laboratorio).
	Rebuild(ctx context.Context) (int64, error)
}
