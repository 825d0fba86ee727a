package repo

import (
	"context"

	"github.com/rogerio-castellano/catalog-admin/internal/models"
)

// ProductPage is one page of the joined product listing.
type ProductPage struct {
	Items      []models.ProductListing
	TotalCount int
	Page       int
	PageSize   int
	TotalPages int
}

// ProductRepository defines the interface for product data operations.
type ProductRepository interface {
	List(ctx context.Context, req PageRequest) (ProductPage, error)
	Create(ctx context.Context, p models.Product) (models.Product, error)
	GetByID(ctx context.Context, id int) (models.Product, error)
	Update(ctx context.Context, p models.Product) error
	Delete(ctx context.Context, id int) error
}
