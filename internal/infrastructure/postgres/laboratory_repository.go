package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/labquim/labstock-api/internal/domain/entity"
	"github.com/labquim/labstock-api/internal/domain/repository"
)

var _ repository.LaboratoryRepository = (*LaboratoryRepo)(nil)

// LaboratoryRepo catálogo de laboratorios sobre PostgreSQL (pool o tx).
type LaboratoryRepo struct {
	q Querier
}

// NewLaboratoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLaboratoryRepository(q Querier) *LaboratoryRepo {
	return &LaboratoryRepo{q: q}
}

const laboratoryColumns = `id, name, address, phone, email, folder_id, movements_folder_id, created_at, updated_at`

// Create alta de laboratorio.
func (r *LaboratoryRepo) Create(ctx context.Context, lab *entity.Laboratory) error {
	query := `
		INSERT INTO laboratories (` + laboratoryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		lab.ID, lab.Name, lab.Address, lab.Phone, lab.Email,
		lab.FolderID, lab.MovementsFolderID, lab.CreatedAt, lab.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create laboratory: %w", mapError(err))
	}
	return nil
}

// GetByID obtiene un laboratorio por código; nil si no existe.
func (r *LaboratoryRepo) GetByID(ctx context.Context, id string) (*entity.Laboratory, error) {
	query := `SELECT ` + laboratoryColumns + ` FROM laboratories WHERE id = $1`
	var lab entity.Laboratory
	err := r.q.QueryRow(ctx, query, id).Scan(
		&lab.ID, &lab.Name, &lab.Address, &lab.Phone, &lab.Email,
		&lab.FolderID, &lab.MovementsFolderID, &lab.CreatedAt, &lab.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get laboratory: %w", err)
	}
	return &lab, nil
}

// Update edita atributos del laboratorio.
func (r *LaboratoryRepo) Update(ctx context.Context, lab *entity.Laboratory) error {
	query := `
		UPDATE laboratories
		SET name = $2, address = $3, phone = $4, email = $5,
		    folder_id = $6, movements_folder_id = $7, updated_at = $8
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		lab.ID, lab.Name, lab.Address, lab.Phone, lab.Email,
		lab.FolderID, lab.MovementsFolderID, lab.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update laboratory: %w", mapError(err))
	}
	return nil
}

// List pagina los laboratorios ordenados por código.
func (r *LaboratoryRepo) List(ctx context.Context, limit, offset int) ([]*entity.Laboratory, error) {
	query := `SELECT ` + laboratoryColumns + ` FROM laboratories ORDER BY id LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list laboratories: %w", err)
	}
	defer rows.Close()
	var list []*entity.Laboratory
	for rows.Next() {
		var lab entity.Laboratory
		if err := rows.Scan(
			&lab.ID, &lab.Name, &lab.Address, &lab.Phone, &lab.Email,
			&lab.FolderID, &lab.MovementsFolderID, &lab.CreatedAt, &lab.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan laboratory: %w", err)
		}
		list = append(list, &lab)
	}
	return list, rows.Err()
}

// Delete elimina un laboratorio (guard de movimientos en el caso de uso).
func (r *LaboratoryRepo) Delete(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM laboratories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete laboratory: %w", mapError(err))
	}
	return nil
}
