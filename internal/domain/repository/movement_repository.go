package repository

import (
	"context"
	"time"

	"github.com/labquim/labstock-api/internal/domain/entity"
)

// MovementFilter filtros de consulta sobre el libro de movimientos.
// Todos los campos son opcionales; el resultado siempre ordena por timestamp
// ascendente (lo exige la reconstrucción de saldos del reporte kardex).
type MovementFilter struct {
	ProductID    string
	LaboratoryID string
	Kinds        []entity.MovementKind
	From         *time.Time
	To           *time.Time
}

// MovementRepository define el puerto de persistencia del libro de movimientos.
// El libro es append-only: no existe operación de borrado ni de edición; una
// fila se compensa insertando la fila opuesta (ver caso de uso Reverse).
type MovementRepository interface {
	// Create inserta una fila inmutable. Referencias inexistentes de producto
	// o laboratorio devuelven domain.ErrNotFound.
	Create(ctx context.Context, m *entity.Movement) error
	GetByID(ctx context.Context, id string) (*entity.Movement, error)
	// Query devuelve las filas que cumplen el filtro, ordenadas por timestamp
	// ascendente.
	Query(ctx context.Context, f MovementFilter, limit, offset int) ([]*entity.Movement, error)
	// ListByGroup devuelve las filas de una misma operación atómica
	// (las dos patas de un traslado).
	ListByGroup(ctx context.Context, groupID string) ([]*entity.Movement, error)
	// FindReversal devuelve la fila que compensa a movementID, o nil.
	FindReversal(ctx context.Context, movementID string) (*entity.Movement, error)
	// CountByProduct y CountByLaboratory sostienen los guards de borrado
	// del catálogo.
	CountByProduct(ctx context.Context, productID string) (int64, error)
	CountByLaboratory(ctx context.Context, labID string) (int64, error)
}
