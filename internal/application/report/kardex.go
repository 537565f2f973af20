package report

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/labquim/labstock-api/internal/domain"
	"github.com/labquim/labstock-api/internal/domain/entity"
	"github.com/labquim/labstock-api/internal/domain/repository"
)

// KardexEntry una fila del libro con su saldo acumulado luego de aplicarla.
type KardexEntry struct {
	Movement *entity.Movement
	Balance  decimal.Decimal
}

// KardexResult reporte de movimientos con saldo corrido para un
// (producto, laboratorio) en una ventana [from, to].
type KardexResult struct {
	ProductID      string
	LaboratoryID   string
	From           time.Time
	To             time.Time
	OpeningBalance decimal.Decimal
	Entries        []KardexEntry
	ClosingBalance decimal.Decimal
}

// KardexUseCase reporte tipo kardex (auditoría): recomputa el saldo fila a
// fila partiendo del stock al inicio de la ventana. Por construcción el saldo
// final coincide con la agregación del motor de derivación para esa ventana.
type KardexUseCase struct {
	movRepo   repository.MovementRepository
	stockRepo repository.StockRepository
}

// NewKardexUseCase construye el caso de uso de reporte.
func NewKardexUseCase(movRepo repository.MovementRepository, stockRepo repository.StockRepository) *KardexUseCase {
	return &KardexUseCase{movRepo: movRepo, stockRepo: stockRepo}
}

// Kardex arma el reporte para productID en labID entre from y to (inclusive).
func (uc *KardexUseCase) Kardex(ctx context.Context, productID, labID string, from, to time.Time) (*KardexResult, error) {
	if productID == "" || labID == "" || to.Before(from) {
		return nil, domain.ErrInvalidInput
	}

	// Saldo de apertura: movimientos anteriores al inicio de la ventana.
	opening, err := uc.stockRepo.StockAtTime(ctx, productID, labID, from)
	if err != nil {
		return nil, err
	}

	rows, err := uc.movRepo.Query(ctx, repository.MovementFilter{
		ProductID:    productID,
		LaboratoryID: labID,
		From:         &from,
		To:           &to,
	}, 0, 0)
	if err != nil {
		return nil, err
	}

	result := &KardexResult{
		ProductID:      productID,
		LaboratoryID:   labID,
		From:           from,
		To:             to,
		OpeningBalance: opening,
		Entries:        make([]KardexEntry, 0, len(rows)),
	}
	balance := opening
	for _, row := range rows {
		balance = balance.Add(row.Kind.Signed(row.Quantity))
		result.Entries = append(result.Entries, KardexEntry{Movement: row, Balance: balance})
	}
	result.ClosingBalance = balance
	return result, nil
}
