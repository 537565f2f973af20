package repository

import (
	"context"

	"github.com/labquim/labstock-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia del catálogo de productos.
type ProductRepository interface {
	Create(ctx context.Context, p *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	Update(ctx context.Context, p *entity.Product) error
	List(ctx context.Context, limit, offset int) ([]*entity.Product, error)
	// SearchByName busca por nombre normalizado (sin tildes, case-insensitive);
	// el caller normaliza el término antes de llamar.
	SearchByName(ctx context.Context, normalized string, limit, offset int) ([]*entity.Product, error)
	Delete(ctx context.Context, id string) error
}
