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

// maxDebitRetries reintentos internos ante conflicto de serialización antes
// de devolver ErrConcurrencyConflict al caller.
const maxDebitRetries = 3

// RegisterMovementUseCase valida y registra movimientos del libro
// (RECEIPT, PURCHASE, CONSUMPTION, TRANSFER) de forma transaccional.
// Para débitos, el chequeo de stock y el insert corren en la misma transacción
// bajo lock por (producto, laboratorio); para un traslado expande el request
// en las dos patas (débito en origen, crédito en destino) y las inserta como
// unidad atómica.
type RegisterMovementUseCase struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
	labRepo     repository.LaboratoryRepository
}

// NewRegisterMovementUseCase construye el caso de uso.
func NewRegisterMovementUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	labRepo repository.LaboratoryRepository,
) *RegisterMovementUseCase {
	return &RegisterMovementUseCase{
		txRunner:    txRunner,
		productRepo: productRepo,
		labRepo:     labRepo,
	}
}

// MovementInput entrada para registrar un movimiento.
// Para RECEIPT/PURCHASE/CONSUMPTION: ProductID, LaboratoryID, Kind, Quantity, Unit.
// Para TRANSFER: además DestinationLabID (distinto del laboratorio origen).
// Para PURCHASE: metadatos de compra (documento, proveedor, adjunto).
type MovementInput struct {
	UserID           string
	ProductID        string
	LaboratoryID     string
	DestinationLabID string
	Kind             entity.MovementKind
	Quantity         decimal.Decimal
	Unit             string

	DocumentType   string
	DocumentNumber string
	InvoiceDate    *time.Time
	SupplierID     string
	AttachmentRef  string
}

// RegisterMovement valida el request, verifica catálogo y ejecuta la
// transacción de registro. Devuelve las filas creadas (dos para TRANSFER).
// Ante un conflicto de serialización reintenta la transacción completa hasta
// maxDebitRetries veces; InsufficientStockError nunca se reintenta.
func (uc *RegisterMovementUseCase) RegisterMovement(ctx context.Context, input MovementInput) ([]*entity.Movement, error) {
	if err := uc.validateInput(input); err != nil {
		return nil, err
	}
	if err := uc.checkCatalog(ctx, input); err != nil {
		return nil, err
	}

	var created []*entity.Movement
	var err error
	for attempt := 0; attempt < maxDebitRetries; attempt++ {
		created, err = uc.runOnce(ctx, input)
		if err == nil || !errors.Is(err, domain.ErrConcurrencyConflict) {
			return created, err
		}
	}
	return nil, err
}

// validateInput chequeos estructurales sin tocar la BD.
func (uc *RegisterMovementUseCase) validateInput(input MovementInput) error {
	if !input.Kind.Valid() {
		return domain.ErrInvalidInput
	}
	if input.ProductID == "" || input.LaboratoryID == "" || input.Unit == "" {
		return domain.ErrInvalidInput
	}
	if !input.Quantity.GreaterThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	if input.Kind == entity.KindTransfer {
		if input.DestinationLabID == "" || input.DestinationLabID == input.LaboratoryID {
			return domain.ErrInvalidInput
		}
	}
	if input.Kind == entity.KindPurchase && input.DocumentNumber == "" {
		return domain.ErrInvalidInput
	}
	return nil
}

// checkCatalog verifica que producto y laboratorio(s) existan.
// El catálogo cambia mucho menos que el libro; se consulta fuera de la tx.
func (uc *RegisterMovementUseCase) checkCatalog(ctx context.Context, input MovementInput) error {
	product, err := uc.productRepo.GetByID(ctx, input.ProductID)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	lab, err := uc.labRepo.GetByID(ctx, input.LaboratoryID)
	if err != nil {
		return err
	}
	if lab == nil {
		return domain.ErrNotFound
	}
	if input.Kind == entity.KindTransfer {
		dest, err := uc.labRepo.GetByID(ctx, input.DestinationLabID)
		if err != nil {
			return err
		}
		if dest == nil {
			return domain.ErrNotFound
		}
	}
	return nil
}

// runOnce una ejecución de la transacción validar+insertar.
func (uc *RegisterMovementUseCase) runOnce(ctx context.Context, input MovementInput) ([]*entity.Movement, error) {
	now := time.Now().UTC()
	groupID := uuid.New().String()
	rows := expandRows(input, groupID, now)

	err := uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		stockRepo repository.StockRepository,
	) error {
		if input.Kind.IsDebit() {
			// Lock por (producto, laboratorio origen) y chequeo de suficiencia
			// dentro de la misma tx que inserta: ningún débito concurrente
			// puede colarse entre el chequeo y el insert.
			if err := validateDebit(ctx, stockRepo, input.ProductID, input.LaboratoryID, input.Quantity); err != nil {
				return err
			}
		}
		for _, row := range rows {
			if err := movRepo.Create(ctx, row); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// expandRows arma la(s) fila(s) del libro para el input. Un traslado produce
// dos filas con el mismo GroupID: débito TRANSFER en el origen y crédito
// RECEIPT en el destino con FK al laboratorio de origen (trazabilidad).
func expandRows(input MovementInput, groupID string, now time.Time) []*entity.Movement {
	base := entity.Movement{
		ID:           uuid.New().String(),
		GroupID:      groupID,
		Kind:         input.Kind,
		Quantity:     input.Quantity,
		Unit:         input.Unit,
		ProductID:    input.ProductID,
		LaboratoryID: input.LaboratoryID,
		Timestamp:    now,
		CreatedAt:    now,
		CreatedBy:    input.UserID,
	}
	if input.Kind == entity.KindPurchase {
		base.DocumentType = input.DocumentType
		base.DocumentNumber = input.DocumentNumber
		base.InvoiceDate = input.InvoiceDate
		base.SupplierID = input.SupplierID
		base.AttachmentRef = input.AttachmentRef
	}
	if input.Kind != entity.KindTransfer {
		return []*entity.Movement{&base}
	}

	base.DestinationLabID = input.DestinationLabID
	credit := entity.Movement{
		ID:           uuid.New().String(),
		GroupID:      groupID,
		Kind:         entity.KindReceipt,
		Quantity:     input.Quantity,
		Unit:         input.Unit,
		ProductID:    input.ProductID,
		LaboratoryID: input.DestinationLabID,
		OriginLabID:  input.LaboratoryID,
		Timestamp:    now,
		CreatedAt:    now,
		CreatedBy:    input.UserID,
	}
	return []*entity.Movement{&base, &credit}
}
