package dto

import (
	"time"

	"github.com/bimal-bp/DPR/internal/domain/entity"
)

// ProductResponse salida de un producto del catálogo.
type ProductResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Unit      string    `json:"unit"`
	CreatedAt time.Time `json:"created_at"`
}

// ProductListResponse lista de productos (el catálogo no se pagina).
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Total int               `json:"total"`
}

// FromProduct mapea la entidad a su respuesta.
func FromProduct(p *entity.Product) ProductResponse {
	return ProductResponse{
		ID:        p.ID,
		Name:      p.Name,
		Category:  string(p.Category),
		Unit:      string(p.Unit),
		CreatedAt: p.CreatedAt,
	}
}

// FromProducts mapea una lista; nunca devuelve Items nil.
func FromProducts(list []*entity.Product) ProductListResponse {
	items := make([]ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, FromProduct(p))
	}
	return ProductListResponse{Items: items, Total: len(items)}
}
