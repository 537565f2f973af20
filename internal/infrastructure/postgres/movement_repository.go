package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/labquim/labstock-api/internal/domain/entity"
	"github.com/labquim/labstock-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo libro de movimientos sobre PostgreSQL (usable con pool o tx).
// El libro es append-only: este adaptador no expone DELETE ni UPDATE.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

const movementColumns = `id, group_id, kind, quantity, unit, product_id, laboratory_id,
	destination_lab_id, origin_lab_id, document_type, document_number, invoice_date,
	supplier_id, attachment_ref, reversal_of, ts, created_at, created_by`

// Create inserta una fila inmutable del libro. Una FK inexistente de producto
// o laboratorio se traduce a domain.ErrNotFound.
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	query := `
		INSERT INTO movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.GroupID, string(m.Kind), m.Quantity, m.Unit, m.ProductID, m.LaboratoryID,
		nullable(m.DestinationLabID), nullable(m.OriginLabID),
		m.DocumentType, m.DocumentNumber, m.InvoiceDate,
		m.SupplierID, m.AttachmentRef, nullable(m.ReversalOf),
		m.Timestamp, m.CreatedAt, nullable(m.CreatedBy),
	)
	if err != nil {
		return fmt.Errorf("create movement: %w", mapError(err))
	}
	return nil
}

// GetByID obtiene una fila por ID; nil si no existe.
func (r *MovementRepo) GetByID(ctx context.Context, id string) (*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM movements WHERE id = $1`
	m, err := scanMovement(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// Query lista filas según filtro, ordenadas por timestamp ascendente (orden
// del libro). limit <= 0 significa sin límite.
func (r *MovementRepo) Query(ctx context.Context, f repository.MovementFilter, limit, offset int) ([]*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM movements WHERE 1=1`
	args := []any{}
	pos := 1
	if f.ProductID != "" {
		query += fmt.Sprintf(" AND product_id = $%d", pos)
		args = append(args, f.ProductID)
		pos++
	}
	if f.LaboratoryID != "" {
		query += fmt.Sprintf(" AND laboratory_id = $%d", pos)
		args = append(args, f.LaboratoryID)
		pos++
	}
	if len(f.Kinds) > 0 {
		kinds := make([]string, 0, len(f.Kinds))
		for _, k := range f.Kinds {
			kinds = append(kinds, string(k))
		}
		query += fmt.Sprintf(" AND kind = ANY($%d)", pos)
		args = append(args, kinds)
		pos++
	}
	if f.From != nil {
		query += fmt.Sprintf(" AND ts >= $%d", pos)
		args = append(args, *f.From)
		pos++
	}
	if f.To != nil {
		query += fmt.Sprintf(" AND ts <= $%d", pos)
		args = append(args, *f.To)
		pos++
	}
	query += " ORDER BY ts ASC, id ASC"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", pos, pos+1)
		args = append(args, limit, offset)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query movements: %w", err)
	}
	defer rows.Close()
	return collectMovements(rows)
}

// ListByGroup devuelve las filas de una misma operación atómica.
func (r *MovementRepo) ListByGroup(ctx context.Context, groupID string) ([]*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM movements WHERE group_id = $1 ORDER BY ts ASC, id ASC`
	rows, err := r.q.Query(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("list by group: %w", err)
	}
	defer rows.Close()
	return collectMovements(rows)
}

// FindReversal devuelve la fila que compensa a movementID, o nil.
func (r *MovementRepo) FindReversal(ctx context.Context, movementID string) (*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM movements WHERE reversal_of = $1`
	m, err := scanMovement(r.q.QueryRow(ctx, query, movementID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find reversal: %w", err)
	}
	return m, nil
}

// CountByProduct cuenta filas que referencian un producto (guard de borrado).
func (r *MovementRepo) CountByProduct(ctx context.Context, productID string) (int64, error) {
	var n int64
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM movements WHERE product_id = $1`, productID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count by product: %w", err)
	}
	return n, nil
}

// CountByLaboratory cuenta filas que referencian un laboratorio, como
// laboratorio afectado, destino u origen de un traslado.
func (r *MovementRepo) CountByLaboratory(ctx context.Context, labID string) (int64, error) {
	var n int64
	err := r.q.QueryRow(ctx, `
		SELECT COUNT(*) FROM movements
		WHERE laboratory_id = $1 OR destination_lab_id = $1 OR origin_lab_id = $1`, labID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count by laboratory: %w", err)
	}
	return n, nil
}

// rowScanner lo cumplen pgx.Row y pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanMovement(row rowScanner) (*entity.Movement, error) {
	var m entity.Movement
	var kind string
	var destLab, originLab, reversalOf, createdBy *string
	var invoiceDate *time.Time
	err := row.Scan(
		&m.ID, &m.GroupID, &kind, &m.Quantity, &m.Unit, &m.ProductID, &m.LaboratoryID,
		&destLab, &originLab, &m.DocumentType, &m.DocumentNumber, &invoiceDate,
		&m.SupplierID, &m.AttachmentRef, &reversalOf, &m.Timestamp, &m.CreatedAt, &createdBy,
	)
	if err != nil {
		return nil, err
	}
	m.Kind = entity.MovementKind(kind)
	m.InvoiceDate = invoiceDate
	if destLab != nil {
		m.DestinationLabID = *destLab
	}
	if originLab != nil {
		m.OriginLabID = *originLab
	}
	if reversalOf != nil {
		m.ReversalOf = *reversalOf
	}
	if createdBy != nil {
		m.CreatedBy = *createdBy
	}
	return &m, nil
}

func collectMovements(rows pgx.Rows) ([]*entity.Movement, error) {
	var list []*entity.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// nullable convierte "" en NULL (columnas FK y referencias opcionales).
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
