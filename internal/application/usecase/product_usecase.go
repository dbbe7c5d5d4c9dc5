package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/bimal-bp/DPR/internal/domain"
	"github.com/bimal-bp/DPR/internal/domain/entity"
	"github.com/bimal-bp/DPR/internal/domain/repository"
)

// ProductUseCase lectura del catálogo. El catálogo no se modifica en tiempo de ejecución
// (lo carga cmd/seed_catalog).
type ProductUseCase struct {
	repo    repository.ProductRepository
	timeout time.Duration
}

// NewProductUseCase construye el caso de uso. timeout <= 0 no acota las consultas.
func NewProductUseCase(repo repository.ProductRepository, timeout time.Duration) *ProductUseCase {
	return &ProductUseCase{repo: repo, timeout: timeout}
}

// List devuelve los productos de la categoría ordenados por nombre (category vacío = todos).
func (uc *ProductUseCase) List(ctx context.Context, category entity.Category) ([]*entity.Product, error) {
	if category != "" && !category.Valid() {
		return nil, domain.NewValidationError("", "category", "categoría desconocida")
	}
	ctx, cancel := uc.bound(ctx)
	defer cancel()
	list, err := uc.repo.List(ctx, category)
	if err != nil {
		return nil, domain.Persistence("listar productos", err)
	}
	if list == nil {
		list = []*entity.Product{}
	}
	return list, nil
}

// GetByID obtiene un producto; domain.ErrNotFound si no existe.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	ctx, cancel := uc.bound(ctx)
	defer cancel()
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.Persistence("obtener producto", err)
	}
	if p == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
	}
	return p, nil
}

func (uc *ProductUseCase) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if uc.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, uc.timeout)
}
