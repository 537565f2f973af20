package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/labquim/labstock-api/internal/domain/entity"
)

// CreateProductRequest entrada para crear un producto del catálogo.
type CreateProductRequest struct {
	ID               string          `json:"id"` // código de producto (4–10 caracteres)
	Name             string          `json:"name"`
	Description      string          `json:"description,omitempty"`
	Category         string          `json:"category"`
	PhysicalState    string          `json:"physical_state"`
	Controlled       bool            `json:"controlled"`
	SafetySheetURL   string          `json:"safety_sheet_url,omitempty"`
	Unit             string          `json:"unit"`
	ReorderThreshold decimal.Decimal `json:"reorder_threshold"`
}

// UpdateProductRequest entrada para editar un producto (el código no cambia).
type UpdateProductRequest struct {
	Name             string          `json:"name"`
	Description      string          `json:"description,omitempty"`
	Category         string          `json:"category"`
	PhysicalState    string          `json:"physical_state"`
	Controlled       bool            `json:"controlled"`
	SafetySheetURL   string          `json:"safety_sheet_url,omitempty"`
	Unit             string          `json:"unit"`
	ReorderThreshold decimal.Decimal `json:"reorder_threshold"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Description      string          `json:"description,omitempty"`
	Category         string          `json:"category"`
	PhysicalState    string          `json:"physical_state"`
	Controlled       bool            `json:"controlled"`
	SafetySheetURL   string          `json:"safety_sheet_url,omitempty"`
	Unit             string          `json:"unit"`
	ReorderThreshold decimal.Decimal `json:"reorder_threshold"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// ToProductEntity mapea el request de alta a la entidad.
func (r CreateProductRequest) ToProductEntity() *entity.Product {
	return &entity.Product{
		ID:               r.ID,
		Name:             r.Name,
		Description:      r.Description,
		Category:         r.Category,
		PhysicalState:    r.PhysicalState,
		Controlled:       r.Controlled,
		SafetySheetURL:   r.SafetySheetURL,
		Unit:             r.Unit,
		ReorderThreshold: r.ReorderThreshold,
	}
}

// ToProductResponse mapea la entidad a su representación HTTP.
func ToProductResponse(p *entity.Product) ProductResponse {
	return ProductResponse{
		ID:               p.ID,
		Name:             p.Name,
		Description:      p.Description,
		Category:         p.Category,
		PhysicalState:    p.PhysicalState,
		Controlled:       p.Controlled,
		SafetySheetURL:   p.SafetySheetURL,
		Unit:             p.Unit,
		ReorderThreshold: p.ReorderThreshold,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

// ToProductResponses mapea un slice de entidades.
func ToProductResponses(ps []*entity.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(ps))
	for _, p := range ps {
		out = append(out, ToProductResponse(p))
	}
	return out
}
