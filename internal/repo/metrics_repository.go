package repo

import "context"

// CatalogStats are the counters shown on the dashboard.
type CatalogStats struct {
	TotalProducts   int `db:"productos"`
	TotalClients    int `db:"clientes"`
	TotalCategories int `db:"categorias"`
	TotalBrands     int `db:"marcas"`
}

type StatsRepository interface {
	CatalogStats(ctx context.Context) (CatalogStats, error)
}
