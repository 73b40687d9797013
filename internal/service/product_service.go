package service

import (
	"context"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"go-product-api/internal/model"
	"go-product-api/pkg/apierror"
)

type ProductStore interface {
	Create(ctx context.Context, name string, price decimal.Decimal) (model.Product, error)
	FindByID(ctx context.Context, id int64) (model.Product, error)
	List(ctx context.Context) ([]model.Product, error)
	Update(ctx context.Context, id int64, name *string, price *decimal.Decimal) (model.Product, error)
	Delete(ctx context.Context, id int64) (model.Product, error)
}

type ProductService struct {
	products ProductStore
}

func NewProductService(products ProductStore) *ProductService {
	return &ProductService{products: products}
}

func (s *ProductService) Create(ctx context.Context, input model.CreateProductRequest) (model.Product, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return model.Product{}, apierror.New("VALIDATION_ERROR", "name is required", "name", http.StatusBadRequest)
	}
	if !input.Price.IsPositive() {
		return model.Product{}, apierror.New("VALIDATION_ERROR", "price must be greater than zero", "price", http.StatusBadRequest)
	}

	return s.products.Create(ctx, input.Name, input.Price)
}

func (s *ProductService) List(ctx context.Context) ([]model.Product, error) {
	return s.products.List(ctx)
}

func (s *ProductService) Get(ctx context.Context, id int64) (model.Product, error) {
	return s.products.FindByID(ctx, id)
}

func (s *ProductService) Update(ctx context.Context, id int64, input model.UpdateProductRequest) (model.Product, error) {
	if input.Name == nil && input.Price == nil {
		return model.Product{}, apierror.New("VALIDATION_ERROR", "nothing to update", "", http.StatusBadRequest)
	}
	if input.Name != nil {
		trimmed := strings.TrimSpace(*input.Name)
		if trimmed == "" {
			return model.Product{}, apierror.New("VALIDATION_ERROR", "name cannot be empty", "name", http.StatusBadRequest)
		}
		input.Name = &trimmed
	}
	if input.Price != nil && !input.Price.IsPositive() {
		return model.Product{}, apierror.New("VALIDATION_ERROR", "price must be greater than zero", "price", http.StatusBadRequest)
	}

	return s.products.Update(ctx, id, input.Name, input.Price)
}

func (s *ProductService) Delete(ctx context.Context, id int64) (model.Product, error) {
	return s.products.Delete(ctx, id)
}
