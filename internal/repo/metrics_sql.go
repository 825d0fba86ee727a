package repo

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type SQLStatsRepository struct {
	db *sqlx.DB
}

func NewSQLStatsRepository(db *sqlx.DB) *SQLStatsRepository {
	return &SQLStatsRepository{db: db}
}

func (r *SQLStatsRepository) CatalogStats(ctx context.Context) (CatalogStats, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var s CatalogStats
	err := r.db.GetContext(ctx, &s, `
		SELECT
			(SELECT COUNT(*) FROM productos) AS productos,
			(SELECT COUNT(*) FROM clientes) AS clientes,
			(SELECT COUNT(*) FROM categorias) AS categorias,
			(SELECT COUNT(*) FROM marcas) AS marcas`)
	if err != nil {
		return CatalogStats{}, fmt.Errorf("catalog stats: %w", err)
	}
	return s, nil
}
