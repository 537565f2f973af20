package entity

import "time"

// Laboratory representa un laboratorio físico que almacena stock.
// Los folder IDs referencian carpetas en el almacenamiento documental externo
// (Drive); el motor solo los persiste, nunca los interpreta.
type Laboratory struct {
	ID                string // código de laboratorio
	Name              string
	Address           string
	Phone             string
	Email             string
	FolderID          string // carpeta documental del laboratorio
	MovementsFolderID string // carpeta de comprobantes de movimientos
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
