package dto

// ErrorResponse cuerpo de error HTTP. ProductID y Field solo en errores de validación.
type ErrorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	ProductID string `json:"product_id,omitempty"`
	Field     string `json:"field,omitempty"`
}

// RangeResponse rango de fechas inclusivo (YYYY-MM-DD).
type RangeResponse struct {
	Start string `json:"start"`
	End   string `json:"end"`
}
