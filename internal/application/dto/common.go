package dto

// PageResponse metadatos de página en respuestas de listado.
type PageResponse struct {
	Pagina int   `json:"pagina"`
	Limite int   `json:"limite"`
	Total  int64 `json:"total"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
