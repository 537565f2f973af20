package ledger

import (
	"context"

	"github.com/labquim/labstock-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. La validación de stock y el append de la(s)
// fila(s) corren juntos dentro de fn: el lock por (producto, laboratorio) que
// toma StockRepository.LockPair vive hasta el Commit/Rollback, lo que
// garantiza que ningún otro débito se intercale entre el chequeo y el insert.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		stockRepo repository.StockRepository,
	) error) error
}
