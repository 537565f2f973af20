package repository

import (
	"context"

	"github.com/labquim/labstock-api/internal/domain/entity"
)

// LaboratoryRepository define el puerto de persistencia de laboratorios.
type LaboratoryRepository interface {
	Create(ctx context.Context, lab *entity.Laboratory) error
	GetByID(ctx context.Context, id string) (*entity.Laboratory, error)
	Update(ctx context.Context, lab *entity.Laboratory) error
	List(ctx context.Context, limit, offset int) ([]*entity.Laboratory, error)
	Delete(ctx context.Context, id string) error
}
