package repo

import (
	"context"
	"sync"

	"github.com/rogerio-castellano/catalog-admin/internal/models"
)

// InMemoryProductRepository is an in-memory implementation of ProductRepository.
// Category and brand names are resolved through lookups, when one is given.
type InMemoryProductRepository struct {
	mu       sync.RWMutex
	products []models.Product
	nextID   int
	lookups  *InMemoryLookupRepository
}

// NewInMemoryProductRepository creates a new instance of InMemoryProductRepository.
func NewInMemoryProductRepository(lookups *InMemoryLookupRepository) *InMemoryProductRepository {
	return &InMemoryProductRepository{
		products: []models.Product{},
		nextID:   1,
		lookups:  lookups,
	}
}

func (r *InMemoryProductRepository) List(_ context.Context, req PageRequest) (ProductPage, error) {
	req = req.Normalize()
	r.mu.RLock()
	defer r.mu.RUnlock()

	total := len(r.products)
	start := clamp(req.Offset(), 0, total)
	end := clamp(start+req.PageSize, start, total)

	items := make([]models.ProductListing, 0, end-start)
	for _, p := range r.products[start:end] {
		item := models.ProductListing{Product: p}
		if r.lookups != nil {
			item.CategoryName = r.lookups.categoryName(p.CategoryID)
			item.BrandName = r.lookups.brandName(p.BrandID)
		}
		items = append(items, item)
	}

	return ProductPage{
		Items:      items,
		TotalCount: total,
		Page:       req.Page,
		PageSize:   req.PageSize,
		TotalPages: TotalPages(total, req.PageSize),
	}, nil
}

// Create adds a new product to the repository.
func (r *InMemoryProductRepository) Create(_ context.Context, product models.Product) (models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	product.ID = r.nextID
	r.nextID++
	r.products = append(r.products, product)
	return product, nil
}

// GetByID retrieves a product by its ID.
func (r *InMemoryProductRepository) GetByID(_ context.Context, id int) (models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.products {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Product{}, ErrProductNotFound
}

// Update modifies an existing product in the repository.
func (r *InMemoryProductRepository) Update(_ context.Context, product models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, p := range r.products {
		if p.ID == product.ID {
			r.products[i] = product
			return nil
		}
	}
	return ErrProductNotFound
}

// Delete removes a product from the repository by its ID.
func (r *InMemoryProductRepository) Delete(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, p := range r.products {
		if p.ID == id {
			r.products = append(r.products[:i], r.products[i+1:]...)
			return nil
		}
	}
	return ErrProductNotFound
}

func (r *InMemoryProductRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.products)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
