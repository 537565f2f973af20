package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/labquim/labstock-api/internal/domain/entity"
	"github.com/labquim/labstock-api/internal/domain/repository"
)

// StockQueryUseCase consultas de lectura sobre el libro y el stock derivado.
// Funciones puras del contenido actual del libro: sin cachés, sin estado.
type StockQueryUseCase struct {
	stockRepo repository.StockRepository
	movRepo   repository.MovementRepository
}

// NewStockQueryUseCase construye el caso de uso de lectura.
func NewStockQueryUseCase(stockRepo repository.StockRepository, movRepo repository.MovementRepository) *StockQueryUseCase {
	return &StockQueryUseCase{stockRepo: stockRepo, movRepo: movRepo}
}

// StockAt stock actual de un producto en un laboratorio.
func (uc *StockQueryUseCase) StockAt(ctx context.Context, productID, labID string) (decimal.Decimal, error) {
	return uc.stockRepo.StockAt(ctx, productID, labID)
}

// StockAtTime stock a un instante dado.
func (uc *StockQueryUseCase) StockAtTime(ctx context.Context, productID, labID string, asOf time.Time) (decimal.Decimal, error) {
	return uc.stockRepo.StockAtTime(ctx, productID, labID, asOf)
}

// StockMapForLab stock por producto en un laboratorio (una query agrupada).
func (uc *StockQueryUseCase) StockMapForLab(ctx context.Context, labID string, productIDs []string) (map[string]decimal.Decimal, error) {
	return uc.stockRepo.StockMapForLab(ctx, labID, productIDs)
}

// GlobalStockMap stock global por producto.
func (uc *StockQueryUseCase) GlobalStockMap(ctx context.Context, productIDs []string) (map[string]decimal.Decimal, error) {
	return uc.stockRepo.GlobalStockMap(ctx, productIDs)
}

// StockByLabMap stock por producto y laboratorio.
func (uc *StockQueryUseCase) StockByLabMap(ctx context.Context, productIDs []string) (map[string]map[string]decimal.Decimal, error) {
	return uc.stockRepo.StockByLabMap(ctx, productIDs)
}

// Movements lista filas del libro según filtro, timestamp ascendente.
func (uc *StockQueryUseCase) Movements(ctx context.Context, f repository.MovementFilter, limit, offset int) ([]*entity.Movement, error) {
	return uc.movRepo.Query(ctx, f, limit, offset)
}

// Movement una fila puntual del libro.
func (uc *StockQueryUseCase) Movement(ctx context.Context, id string) (*entity.Movement, error) {
	return uc.movRepo.GetByID(ctx, id)
}
