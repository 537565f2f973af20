package dto

// PageRequest paginación para listados.
type PageRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// DefaultPage aplica valores por defecto si Limit/Offset son cero.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// ErrorResponse cuerpo de error HTTP. Para INSUFFICIENT_STOCK incluye el
// stock disponible, que la UI muestra al usuario para que corrija la cantidad.
type ErrorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Available string `json:"available_stock,omitempty"`
	Requested string `json:"requested,omitempty"`
}
