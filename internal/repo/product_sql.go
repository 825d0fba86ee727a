package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/rogerio-castellano/catalog-admin/internal/models"
)

const productListingQuery = `
	SELECT p.id, p.nombre, p.precio, p.categoria_id, p.marca_id,
	       c.nombre AS categoria, m.nombre AS marca
	FROM productos p
	LEFT JOIN categorias c ON p.categoria_id = c.id
	LEFT JOIN marcas m ON p.marca_id = m.id
	ORDER BY p.id
	LIMIT ? OFFSET ?`

type SQLProductRepository struct {
	db *sqlx.DB
}

func NewSQLProductRepository(db *sqlx.DB) *SQLProductRepository {
	return &SQLProductRepository{db: db}
}

func (r *SQLProductRepository) List(ctx context.Context, req PageRequest) (ProductPage, error) {
	req = req.Normalize()
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM productos`); err != nil {
		return ProductPage{}, fmt.Errorf("count products: %w", err)
	}

	items := []models.ProductListing{}
	if err := r.db.SelectContext(ctx, &items, r.db.Rebind(productListingQuery), req.PageSize, req.Offset()); err != nil {
		return ProductPage{}, fmt.Errorf("list products: %w", err)
	}

	return ProductPage{
		Items:      items,
		TotalCount: total,
		Page:       req.Page,
		PageSize:   req.PageSize,
		TotalPages: TotalPages(total, req.PageSize),
	}, nil
}

func (r *SQLProductRepository) Create(ctx context.Context, p models.Product) (models.Product, error) {
	query := `INSERT INTO productos (nombre, precio, categoria_id, marca_id) VALUES (?, ?, ?, ?)`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	id, err := insertReturningID(ctx, r.db, query, "id", p.Name, p.Price, p.CategoryID, p.BrandID)
	if err != nil {
		return models.Product{}, fmt.Errorf("insert product: %w", err)
	}
	p.ID = id
	return p, nil
}

func (r *SQLProductRepository) GetByID(ctx context.Context, id int) (models.Product, error) {
	query := `SELECT id, nombre, precio, categoria_id, marca_id FROM productos WHERE id = ?`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var p models.Product
	err := r.db.GetContext(ctx, &p, r.db.Rebind(query), id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Product{}, ErrProductNotFound
	}
	return p, err
}

func (r *SQLProductRepository) Update(ctx context.Context, p models.Product) error {
	query := `UPDATE productos SET nombre = ?, precio = ?, categoria_id = ?, marca_id = ? WHERE id = ?`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	return execAffectingRow(ctx, r.db, ErrProductNotFound, query, p.Name, p.Price, p.CategoryID, p.BrandID, p.ID)
}

func (r *SQLProductRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM productos WHERE id = ?`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	return execAffectingRow(ctx, r.db, ErrProductNotFound, query, id)
}
