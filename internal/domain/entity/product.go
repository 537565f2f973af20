package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados físicos admitidos para un producto químico.
const (
	PhysicalStateSolid  = "solido"
	PhysicalStateLiquid = "liquido"
	PhysicalStateGas    = "gaseoso"
)

// Product representa un producto químico o material del catálogo (global,
// independiente del laboratorio). Un producto con movimientos en el libro
// nunca se elimina.
type Product struct {
	ID               string // código de producto (4–10 caracteres, estable)
	Name             string
	Description      string
	Category         string // tipo de producto (reactivo, solvente, etc.)
	PhysicalState    string
	Controlled       bool   // sujeto a control SEDRONAR
	SafetySheetURL   string // ficha de seguridad (referencia opaca)
	Unit             string // unidad de medida por defecto
	ReorderThreshold decimal.Decimal
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
