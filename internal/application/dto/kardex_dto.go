package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/labquim/labstock-api/internal/application/report"
)

// KardexEntryResponse fila del kardex con su saldo corrido.
type KardexEntryResponse struct {
	Movement MovementResponse `json:"movement"`
	Balance  decimal.Decimal  `json:"balance"`
}

// KardexResponse reporte de movimientos con saldo corrido.
type KardexResponse struct {
	ProductID      string                `json:"product_id"`
	LaboratoryID   string                `json:"laboratory_id"`
	From           time.Time             `json:"from"`
	To             time.Time             `json:"to"`
	OpeningBalance decimal.Decimal       `json:"opening_balance"`
	Entries        []KardexEntryResponse `json:"entries"`
	ClosingBalance decimal.Decimal       `json:"closing_balance"`
}

// ToKardexResponse mapea el resultado del caso de uso.
func ToKardexResponse(r *report.KardexResult) KardexResponse {
	entries := make([]KardexEntryResponse, 0, len(r.Entries))
	for _, e := range r.Entries {
		entries = append(entries, KardexEntryResponse{
			Movement: ToMovementResponse(e.Movement),
			Balance:  e.Balance,
		})
	}
	return KardexResponse{
		ProductID:      r.ProductID,
		LaboratoryID:   r.LaboratoryID,
		From:           r.From,
		To:             r.To,
		OpeningBalance: r.OpeningBalance,
		Entries:        entries,
		ClosingBalance: r.ClosingBalance,
	}
}
