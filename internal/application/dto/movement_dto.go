package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/labquim/labstock-api/internal/domain/entity"
)

// RegisterMovementRequest body para POST /api/movements.
// Para TRANSFER, laboratory_id es el origen y destination_lab_id el destino.
type RegisterMovementRequest struct {
	ProductID        string          `json:"product_id"`
	LaboratoryID     string          `json:"laboratory_id"`
	DestinationLabID string          `json:"destination_lab_id,omitempty"`
	Kind             string          `json:"kind"`
	Quantity         decimal.Decimal `json:"quantity"`
	Unit             string          `json:"unit"`

	// Metadatos de compra (solo PURCHASE).
	DocumentType   string     `json:"document_type,omitempty"`
	DocumentNumber string     `json:"document_number,omitempty"`
	InvoiceDate    *time.Time `json:"invoice_date,omitempty"`
	SupplierID     string     `json:"supplier_id,omitempty"`
	AttachmentRef  string     `json:"attachment_ref,omitempty"`
}

// MovementResponse salida de una fila del libro.
type MovementResponse struct {
	ID               string          `json:"id"`
	GroupID          string          `json:"group_id"`
	Kind             string          `json:"kind"`
	Quantity         decimal.Decimal `json:"quantity"`
	Unit             string          `json:"unit"`
	ProductID        string          `json:"product_id"`
	LaboratoryID     string          `json:"laboratory_id"`
	DestinationLabID string          `json:"destination_lab_id,omitempty"`
	OriginLabID      string          `json:"origin_lab_id,omitempty"`
	DocumentType     string          `json:"document_type,omitempty"`
	DocumentNumber   string          `json:"document_number,omitempty"`
	InvoiceDate      *time.Time      `json:"invoice_date,omitempty"`
	SupplierID       string          `json:"supplier_id,omitempty"`
	AttachmentRef    string          `json:"attachment_ref,omitempty"`
	ReversalOf       string          `json:"reversal_of,omitempty"`
	Timestamp        time.Time       `json:"timestamp"`
	CreatedBy        string          `json:"created_by,omitempty"`
}

// MovementListResponse lista de filas del libro.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// ToMovementResponse mapea la entidad a su representación HTTP.
func ToMovementResponse(m *entity.Movement) MovementResponse {
	return MovementResponse{
		ID:               m.ID,
		GroupID:          m.GroupID,
		Kind:             string(m.Kind),
		Quantity:         m.Quantity,
		Unit:             m.Unit,
		ProductID:        m.ProductID,
		LaboratoryID:     m.LaboratoryID,
		DestinationLabID: m.DestinationLabID,
		OriginLabID:      m.OriginLabID,
		DocumentType:     m.DocumentType,
		DocumentNumber:   m.DocumentNumber,
		InvoiceDate:      m.InvoiceDate,
		SupplierID:       m.SupplierID,
		AttachmentRef:    m.AttachmentRef,
		ReversalOf:       m.ReversalOf,
		Timestamp:        m.Timestamp,
		CreatedBy:        m.CreatedBy,
	}
}

// ToMovementResponses mapea un slice de entidades.
func ToMovementResponses(ms []*entity.Movement) []MovementResponse {
	out := make([]MovementResponse, 0, len(ms))
	for _, m := range ms {
		out = append(out, ToMovementResponse(m))
	}
	return out
}
