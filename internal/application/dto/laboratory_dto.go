package dto

import (
	"time"

	"github.com/labquim/labstock-api/internal/domain/entity"
)

// CreateLaboratoryRequest entrada para crear un laboratorio.
type CreateLaboratoryRequest struct {
	ID                string `json:"id"` // código de laboratorio
	Name              string `json:"name"`
	Address           string `json:"address,omitempty"`
	Phone             string `json:"phone,omitempty"`
	Email             string `json:"email,omitempty"`
	FolderID          string `json:"folder_id,omitempty"`
	MovementsFolderID string `json:"movements_folder_id,omitempty"`
}

// UpdateLaboratoryRequest entrada para editar un laboratorio.
type UpdateLaboratoryRequest struct {
	Name              string `json:"name"`
	Address           string `json:"address,omitempty"`
	Phone             string `json:"phone,omitempty"`
	Email             string `json:"email,omitempty"`
	FolderID          string `json:"folder_id,omitempty"`
	MovementsFolderID string `json:"movements_folder_id,omitempty"`
}

// LaboratoryResponse salida de un laboratorio.
type LaboratoryResponse struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Address           string    `json:"address,omitempty"`
	Phone             string    `json:"phone,omitempty"`
	Email             string    `json:"email,omitempty"`
	FolderID          string    `json:"folder_id,omitempty"`
	MovementsFolderID string    `json:"movements_folder_id,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// LaboratoryListResponse lista paginada de laboratorios.
type LaboratoryListResponse struct {
	Items []LaboratoryResponse `json:"items"`
	Page  PageResponse         `json:"page"`
}

// ToLaboratoryEntity mapea el request de alta a la entidad.
func (r CreateLaboratoryRequest) ToLaboratoryEntity() *entity.Laboratory {
	return &entity.Laboratory{
		ID:                r.ID,
		Name:              r.Name,
		Address:           r.Address,
		Phone:             r.Phone,
		Email:             r.Email,
		FolderID:          r.FolderID,
		MovementsFolderID: r.MovementsFolderID,
	}
}

// ToLaboratoryResponse mapea la entidad a su representación HTTP.
func ToLaboratoryResponse(lab *entity.Laboratory) LaboratoryResponse {
	return LaboratoryResponse{
		ID:                lab.ID,
		Name:              lab.Name,
		Address:           lab.Address,
		Phone:             lab.Phone,
		Email:             lab.Email,
		FolderID:          lab.FolderID,
		MovementsFolderID: lab.MovementsFolderID,
		CreatedAt:         lab.CreatedAt,
		UpdatedAt:         lab.UpdatedAt,
	}
}

// ToLaboratoryResponses mapea un slice de entidades.
func ToLaboratoryResponses(labs []*entity.Laboratory) []LaboratoryResponse {
	out := make([]LaboratoryResponse, 0, len(labs))
	for _, lab := range labs {
		out = append(out, ToLaboratoryResponse(lab))
	}
	return out
}
