package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementKind tipo cerrado de movimiento de inventario. No hay match
// case-insensitive ni variantes libres: toda la agregación es exhaustiva
// sobre estas cuatro constantes.
type MovementKind string

const (
	KindReceipt     MovementKind = "RECEIPT"     // recepción (crédito)
	KindPurchase    MovementKind = "PURCHASE"    // compra (crédito)
	KindConsumption MovementKind = "CONSUMPTION" // consumo (débito)
	KindTransfer    MovementKind = "TRANSFER"    // pata de salida de un traslado (débito)
)

// Valid indica si el kind pertenece al conjunto cerrado.
func (k MovementKind) Valid() bool {
	switch k {
	case KindReceipt, KindPurchase, KindConsumption, KindTransfer:
		return true
	}
	return false
}

// IsCredit indica si el movimiento suma stock en el laboratorio afectado.
func (k MovementKind) IsCredit() bool {
	return k == KindReceipt || k == KindPurchase
}

// IsDebit indica si el movimiento resta stock en el laboratorio afectado.
func (k MovementKind) IsDebit() bool {
	return k == KindConsumption || k == KindTransfer
}

// Signed devuelve la cantidad con el signo que aporta al stock derivado:
// positiva para créditos, negativa para débitos.
func (k MovementKind) Signed(q decimal.Decimal) decimal.Decimal {
	if k.IsDebit() {
		return q.Neg()
	}
	return q
}

// ReversalKind devuelve el kind del movimiento compensatorio: un crédito se
// revierte con un consumo y un consumo con una recepción. TRANSFER se revierte
// como un traslado en sentido inverso (dos filas), no con este método.
func (k MovementKind) ReversalKind() MovementKind {
	if k.IsCredit() {
		return KindConsumption
	}
	return KindReceipt
}

// Movement representa una fila inmutable del libro de movimientos. El stock
// nunca se guarda como número mutable: siempre se deriva sumando estas filas.
type Movement struct {
	ID string
	// GroupID agrupa las filas insertadas en una misma operación atómica
	// (las dos patas de un traslado comparten GroupID).
	GroupID      string
	Kind         MovementKind
	Quantity     decimal.Decimal // siempre positiva; el signo lo aporta el kind
	Unit         string
	ProductID    string
	LaboratoryID string // laboratorio afectado por la fila

	// Solo para TRANSFER (pata de salida): laboratorio destino.
	DestinationLabID string
	// Solo para la pata de entrada de un traslado: laboratorio de origen
	// (FK estructurada, trazabilidad del traslado).
	OriginLabID string

	// Metadatos de compra (PURCHASE).
	DocumentType   string
	DocumentNumber string
	InvoiceDate    *time.Time
	SupplierID     string
	AttachmentRef  string // referencia opaca a la factura/remito (Drive u otro)

	// ID del movimiento que esta fila compensa (reversa). El libro no admite
	// DELETE físico: revertir es insertar la fila opuesta.
	ReversalOf string

	Timestamp time.Time // asignado por el servidor; ordena el libro
	CreatedAt time.Time
	CreatedBy string // usuario que registró el movimiento
}
