package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockResponse stock derivado de un producto en un laboratorio.
type StockResponse struct {
	ProductID    string          `json:"product_id"`
	LaboratoryID string          `json:"laboratory_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	AsOf         *time.Time      `json:"as_of,omitempty"` // presente en consultas a un instante dado
}

// StockMapResponse stock por producto (un laboratorio o global).
type StockMapResponse struct {
	LaboratoryID string                     `json:"laboratory_id,omitempty"` // vacío = global
	Stock        map[string]decimal.Decimal `json:"stock"`
}

// StockByLabResponse stock por producto y por laboratorio.
type StockByLabResponse struct {
	Stock map[string]map[string]decimal.Decimal `json:"stock"`
}
