package usecase

import (
	"context"
	"errors"
	"net/http"

	repo "app/internal/repository"
)

// 商品カタログの参照のみ。管理系のCRUDはこのサービスの範囲外
type ProductUsecase struct {
	productRepo repo.ProductRepository
}

// DI
func NewProductUsecase(productRepo repo.ProductRepository) *ProductUsecase {
	return &ProductUsecase{productRepo: productRepo}
}

type ProductOutput struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

func (u *ProductUsecase) ListProducts(ctx context.Context) ([]ProductOutput, error) {
	products, err := u.productRepo.List(ctx)
	if err != nil {
		return []ProductOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	out := make([]ProductOutput, 0, len(products))
	for _, p := range products {
		out = append(out, ProductOutput{
			ID:    p.ID,
			Name:  p.Name,
			Price: p.Price.InexactFloat64(),
		})
	}
	return out, nil
}

func (u *ProductUsecase) GetProduct(ctx context.Context, productID int64) (ProductOutput, error) {
	if productID <= 0 {
		return ProductOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return ProductOutput{}, NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return ProductOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return ProductOutput{
		ID:    p.ID,
		Name:  p.Name,
		Price: p.Price.InexactFloat64(),
	}, nil
}
