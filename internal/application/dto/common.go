package dto

// Límites de paginación.
const (
	MaxPageLimit = 100
)

// PathID identificador de recurso recibido en la ruta.
type PathID struct {
	ID string `validate:"required,uuid"`
}

// PageRequest paginación por página (1..n) y tamaño.
type PageRequest struct {
	Page  int `query:"page"`
	Limit int `query:"limit"`
}

// Normalize aplica valores por defecto: página 1, tamaño defLimit, tope MaxPageLimit.
func (p PageRequest) Normalize(defLimit int) PageRequest {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = defLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	return p
}

// Offset desplazamiento de la página. Llamar después de Normalize.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Pagination metadatos de página en respuestas.
type Pagination struct {
	CurrentPage int `json:"currentPage"`
	TotalPages  int `json:"totalPages"`
	Total       int `json:"total"`
	Limit       int `json:"limit"`
}

// NewPagination calcula el total de páginas.
func NewPagination(p PageRequest, total int) Pagination {
	pages := 0
	if p.Limit > 0 {
		pages = (total + p.Limit - 1) / p.Limit
	}
	return Pagination{CurrentPage: p.Page, TotalPages: pages, Total: total, Limit: p.Limit}
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MessageResponse respuesta sin datos, solo confirmación.
type MessageResponse struct {
	Message string `json:"message"`
}
