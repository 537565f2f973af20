package catalog

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/labquim/labstock-api/internal/domain"
	"github.com/labquim/labstock-api/internal/domain/entity"
	"github.com/labquim/labstock-api/internal/domain/repository"
	"github.com/labquim/labstock-api/pkg/normalize"
)

// Código de producto: 4 a 10 caracteres alfanuméricos (con guiones), estable.
var productCodeRe = regexp.MustCompile(`^[A-Z0-9-]{4,10}$`)

// ProductUseCase administra el catálogo de productos. El catálogo no tiene
// lógica de negocio más allá de formato, existencia y el guard de borrado:
// un producto con filas en el libro nunca se elimina.
type ProductUseCase struct {
	productRepo repository.ProductRepository
	movRepo     repository.MovementRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(productRepo repository.ProductRepository, movRepo repository.MovementRepository) *ProductUseCase {
	return &ProductUseCase{productRepo: productRepo, movRepo: movRepo}
}

// Create valida el código y alta el producto.
func (uc *ProductUseCase) Create(ctx context.Context, p *entity.Product) error {
	p.ID = strings.ToUpper(strings.TrimSpace(p.ID))
	if !productCodeRe.MatchString(p.ID) || p.Name == "" {
		return domain.ErrInvalidInput
	}
	existing, err := uc.productRepo.GetByID(ctx, p.ID)
	if err != nil {
		return err
	}
	if existing != nil {
		return domain.ErrDuplicate
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	return uc.productRepo.Create(ctx, p)
}

// GetByID devuelve el producto o ErrNotFound.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	p, err := uc.productRepo.GetByID(ctx, strings.ToUpper(id))
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

// Update edita atributos; el código nunca cambia.
func (uc *ProductUseCase) Update(ctx context.Context, p *entity.Product) error {
	existing, err := uc.productRepo.GetByID(ctx, p.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return domain.ErrNotFound
	}
	if p.Name == "" {
		return domain.ErrInvalidInput
	}
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = time.Now().UTC()
	return uc.productRepo.Update(ctx, p)
}

// List pagina el catálogo.
func (uc *ProductUseCase) List(ctx context.Context, limit, offset int) ([]*entity.Product, error) {
	return uc.productRepo.List(ctx, limit, offset)
}

// Search busca por nombre sin distinguir mayúsculas ni tildes.
func (uc *ProductUseCase) Search(ctx context.Context, term string, limit, offset int) ([]*entity.Product, error) {
	folded := normalize.Fold(strings.TrimSpace(term))
	if folded == "" {
		return uc.productRepo.List(ctx, limit, offset)
	}
	return uc.productRepo.SearchByName(ctx, folded, limit, offset)
}

// Delete elimina un producto solo si el libro no lo referencia.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	id = strings.ToUpper(id)
	existing, err := uc.productRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return domain.ErrNotFound
	}
	n, err := uc.movRepo.CountByProduct(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return domain.ErrConflict
	}
	return uc.productRepo.Delete(ctx, id)
}
