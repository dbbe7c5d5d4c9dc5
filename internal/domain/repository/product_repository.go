package repository

import (
	"context"

	"github.com/bimal-bp/DPR/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia del catálogo (DIP).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	// GetByID devuelve nil, nil si el producto no existe.
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// List devuelve los productos ordenados por nombre. category vacío = todas.
	List(ctx context.Context, category entity.Category) ([]*entity.Product, error)
}
