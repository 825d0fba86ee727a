package repo

import (
	"context"
	"fmt"
	"sync"

	"github.com/jmoiron/sqlx"
	"github.com/rogerio-castellano/catalog-admin/internal/models"
)

// LookupRepository serves the read-only categorias and marcas tables used by product forms.
type LookupRepository interface {
	Categories(ctx context.Context) ([]models.Category, error)
	Brands(ctx context.Context) ([]models.Brand, error)
}

type SQLLookupRepository struct {
	db *sqlx.DB
}

func NewSQLLookupRepository(db *sqlx.DB) *SQLLookupRepository {
	return &SQLLookupRepository{db: db}
}

func (r *SQLLookupRepository) Categories(ctx context.Context) ([]models.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	categories := []models.Category{}
	if err := r.db.SelectContext(ctx, &categories, `SELECT id, nombre FROM categorias ORDER BY nombre`); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

func (r *SQLLookupRepository) Brands(ctx context.Context) ([]models.Brand, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	brands := []models.Brand{}
	if err := r.db.SelectContext(ctx, &brands, `SELECT id, nombre FROM marcas ORDER BY nombre`); err != nil {
		return nil, fmt.Errorf("list brands: %w", err)
	}
	return brands, nil
}

type InMemoryLookupRepository struct {
	mu         sync.RWMutex
	categories []models.Category
	brands     []models.Brand
}

func NewInMemoryLookupRepository(categories []models.Category, brands []models.Brand) *InMemoryLookupRepository {
	return &InMemoryLookupRepository{categories: categories, brands: brands}
}

func (r *InMemoryLookupRepository) Categories(_ context.Context) ([]models.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]models.Category(nil), r.categories...), nil
}

func (r *InMemoryLookupRepository) Brands(_ context.Context) ([]models.Brand, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]models.Brand(nil), r.brands...), nil
}

func (r *InMemoryLookupRepository) categoryName(id *int) *string {
	if id == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.categories {
		if c.ID == *id {
			name := c.Name
			return &name
		}
	}
	return nil
}

func (r *InMemoryLookupRepository) brandName(id *int) *string {
	if id == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, b := range r.brands {
		if b.ID == *id {
			name := b.Name
			return &name
		}
	}
	return nil
}
