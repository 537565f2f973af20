package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias de infraestructura).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrDuplicate           = errors.New("recurso duplicado")
	ErrConflict            = errors.New("conflicto con el estado actual")
	ErrInsufficientStock   = errors.New("stock insuficiente")
	ErrConcurrencyConflict = errors.New("conflicto de concurrencia sobre el stock")
	ErrStorage             = errors.New("error de almacenamiento")
)

// InsufficientStockError rechazo de un débito que dejaría el stock negativo.
// Lleva el stock disponible al momento de la validación para que la UI pueda
// mostrarlo; es recuperable (el caller reintenta con otra cantidad).
type InsufficientStockError struct {
	ProductID    string
	LaboratoryID string
	Available    decimal.Decimal
	Requested    decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente de %s en %s: disponible %s, solicitado %s",
		e.ProductID, e.LaboratoryID, e.Available.String(), e.Requested.String())
}

// Is permite errors.Is(err, ErrInsufficientStock) sobre el error tipado.
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}
