package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/labquim/labstock-api/internal/domain"
	"github.com/labquim/labstock-api/internal/domain/entity"
	"github.com/labquim/labstock-api/internal/domain/repository"
)

// ReverseMovementUseCase compensa un movimiento ya comprometido.
// El libro nunca borra filas: revertir es insertar la fila opuesta con
// referencia a la fila que compensa, así la historia derivada no se reescribe.
type ReverseMovementUseCase struct {
	txRunner TxRunner
}

// NewReverseMovementUseCase construye el caso de uso.
func NewReverseMovementUseCase(txRunner TxRunner) *ReverseMovementUseCase {
	return &ReverseMovementUseCase{txRunner: txRunner}
}

// Reverse inserta el/los movimiento(s) compensatorio(s) de movementID.
// Reglas:
//   - un movimiento se revierte a lo sumo una vez (ErrConflict si ya tiene reversa);
//   - una reversa no se revierte (ErrConflict); corregir es registrar un movimiento nuevo;
//   - la pata de entrada de un traslado no se revierte suelta: se revierte el
//     traslado completo desde su pata TRANSFER (ErrConflict);
//   - revertir un crédito debita stock, así que valida suficiencia bajo el
//     mismo lock por (producto, laboratorio) que cualquier débito.
func (uc *ReverseMovementUseCase) Reverse(ctx context.Context, movementID, userID string) ([]*entity.Movement, error) {
	var created []*entity.Movement
	var err error
	for attempt := 0; attempt < maxDebitRetries; attempt++ {
		created, err = uc.runOnce(ctx, movementID, userID)
		if err == nil || !errors.Is(err, domain.ErrConcurrencyConflict) {
			return created, err
		}
	}
	return nil, err
}

func (uc *ReverseMovementUseCase) runOnce(ctx context.Context, movementID, userID string) ([]*entity.Movement, error) {
	now := time.Now().UTC()
	var created []*entity.Movement

	err := uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		stockRepo repository.StockRepository,
	) error {
		orig, err := movRepo.GetByID(ctx, movementID)
		if err != nil {
			return err
		}
		if orig == nil {
			return domain.ErrNotFound
		}
		if orig.ReversalOf != "" {
			return domain.ErrConflict
		}
		if orig.OriginLabID != "" {
			// pata de entrada de un traslado: revertir desde la pata TRANSFER
			return domain.ErrConflict
		}
		existing, err := movRepo.FindReversal(ctx, orig.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrConflict
		}

		if orig.Kind == entity.KindTransfer {
			created, err = uc.reverseTransfer(ctx, movRepo, stockRepo, orig, userID, now)
			return err
		}

		revKind := orig.Kind.ReversalKind()
		if revKind.IsDebit() {
			if err := validateDebit(ctx, stockRepo, orig.ProductID, orig.LaboratoryID, orig.Quantity); err != nil {
				return err
			}
		}
		row := &entity.Movement{
			ID:           uuid.New().String(),
			GroupID:      uuid.New().String(),
			Kind:         revKind,
			Quantity:     orig.Quantity,
			Unit:         orig.Unit,
			ProductID:    orig.ProductID,
			LaboratoryID: orig.LaboratoryID,
			ReversalOf:   orig.ID,
			Timestamp:    now,
			CreatedAt:    now,
			CreatedBy:    userID,
		}
		if err := movRepo.Create(ctx, row); err != nil {
			return err
		}
		created = []*entity.Movement{row}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// reverseTransfer deshace un traslado con el traslado inverso: débito en el
// laboratorio destino y crédito en el de origen, mismo GroupID, atómico.
func (uc *ReverseMovementUseCase) reverseTransfer(
	ctx context.Context,
	movRepo repository.MovementRepository,
	stockRepo repository.StockRepository,
	orig *entity.Movement,
	userID string,
	now time.Time,
) ([]*entity.Movement, error) {
	legs, err := movRepo.ListByGroup(ctx, orig.GroupID)
	if err != nil {
		return nil, err
	}
	var creditLeg *entity.Movement
	for _, leg := range legs {
		if leg.ID != orig.ID && leg.Kind == entity.KindReceipt {
			creditLeg = leg
		}
	}
	if creditLeg == nil {
		return nil, domain.ErrConflict
	}

	// El stock a debitar ahora vive en el laboratorio destino del traslado.
	if err := validateDebit(ctx, stockRepo, orig.ProductID, orig.DestinationLabID, orig.Quantity); err != nil {
		return nil, err
	}

	groupID := uuid.New().String()
	debit := &entity.Movement{
		ID:               uuid.New().String(),
		GroupID:          groupID,
		Kind:             entity.KindTransfer,
		Quantity:         orig.Quantity,
		Unit:             orig.Unit,
		ProductID:        orig.ProductID,
		LaboratoryID:     orig.DestinationLabID,
		DestinationLabID: orig.LaboratoryID,
		ReversalOf:       creditLeg.ID,
		Timestamp:        now,
		CreatedAt:        now,
		CreatedBy:        userID,
	}
	credit := &entity.Movement{
		ID:           uuid.New().String(),
		GroupID:      groupID,
		Kind:         entity.KindReceipt,
		Quantity:     orig.Quantity,
		Unit:         orig.Unit,
		ProductID:    orig.ProductID,
		LaboratoryID: orig.LaboratoryID,
		OriginLabID:  orig.DestinationLabID,
		ReversalOf:   orig.ID,
		Timestamp:    now,
		CreatedAt:    now,
		CreatedBy:    userID,
	}
	if err := movRepo.Create(ctx, debit); err != nil {
		return nil, err
	}
	if err := movRepo.Create(ctx, credit); err != nil {
		return nil, err
	}
	return []*entity.Movement{debit, credit}, nil
}

// validateDebit lock por (producto, laboratorio) + chequeo de suficiencia,
// dentro de la transacción en curso.
func validateDebit(ctx context.Context, stockRepo repository.StockRepository, productID, labID string, qty decimal.Decimal) error {
	if err := stockRepo.LockPair(ctx, productID, labID); err != nil {
		return err
	}
	available, err := stockRepo.StockAt(ctx, productID, labID)
	if err != nil {
		return err
	}
	if available.LessThan(qty) {
		return &domain.InsufficientStockError{
			ProductID:    productID,
			LaboratoryID: labID,
			Available:    available,
			Requested:    qty,
		}
	}
	return nil
}
