package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/labquim/labstock-api/internal/domain"
	"github.com/labquim/labstock-api/internal/domain/entity"
	"github.com/labquim/labstock-api/internal/domain/repository"
)

// LaboratoryUseCase administra los laboratorios (ubicaciones de stock).
type LaboratoryUseCase struct {
	labRepo repository.LaboratoryRepository
	movRepo repository.MovementRepository
}

// NewLaboratoryUseCase construye el caso de uso.
func NewLaboratoryUseCase(labRepo repository.LaboratoryRepository, movRepo repository.MovementRepository) *LaboratoryUseCase {
	return &LaboratoryUseCase{labRepo: labRepo, movRepo: movRepo}
}

// Create alta de laboratorio.
func (uc *LaboratoryUseCase) Create(ctx context.Context, lab *entity.Laboratory) error {
	lab.ID = strings.ToUpper(strings.TrimSpace(lab.ID))
	if lab.ID == "" || lab.Name == "" {
		return domain.ErrInvalidInput
	}
	existing, err := uc.labRepo.GetByID(ctx, lab.ID)
	if err != nil {
		return err
	}
	if existing != nil {
		return domain.ErrDuplicate
	}
	now := time.Now().UTC()
	lab.CreatedAt = now
	lab.UpdatedAt = now
	return uc.labRepo.Create(ctx, lab)
}

// GetByID devuelve el laboratorio o ErrNotFound.
func (uc *LaboratoryUseCase) GetByID(ctx context.Context, id string) (*entity.Laboratory, error) {
	lab, err := uc.labRepo.GetByID(ctx, strings.ToUpper(id))
	if err != nil {
		return nil, err
	}
	if lab == nil {
		return nil, domain.ErrNotFound
	}
	return lab, nil
}

// Update edita atributos del laboratorio.
func (uc *LaboratoryUseCase) Update(ctx context.Context, lab *entity.Laboratory) error {
	existing, err := uc.labRepo.GetByID(ctx, lab.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return domain.ErrNotFound
	}
	if lab.Name == "" {
		return domain.ErrInvalidInput
	}
	lab.CreatedAt = existing.CreatedAt
	lab.UpdatedAt = time.Now().UTC()
	return uc.labRepo.Update(ctx, lab)
}

// List pagina los laboratorios.
func (uc *LaboratoryUseCase) List(ctx context.Context, limit, offset int) ([]*entity.Laboratory, error) {
	return uc.labRepo.List(ctx, limit, offset)
}

// Delete elimina un laboratorio solo si el libro no lo referencia
// (como laboratorio afectado, destino u origen de traslados).
func (uc *LaboratoryUseCase) Delete(ctx context.Context, id string) error {
	id = strings.ToUpper(id)
	existing, err := uc.labRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return domain.ErrNotFound
	}
	n, err := uc.movRepo.CountByLaboratory(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return domain.ErrConflict
	}
	return uc.labRepo.Delete(ctx, id)
}
