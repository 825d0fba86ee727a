package repo

import "context"

type InMemoryStatsRepository struct {
	products *InMemoryProductRepository
	clients  *InMemoryClientRepository
	lookups  *InMemoryLookupRepository
}

func NewInMemoryStatsRepository(products *InMemoryProductRepository, clients *InMemoryClientRepository, lookups *InMemoryLookupRepository) *InMemoryStatsRepository {
	return &InMemoryStatsRepository{products: products, clients: clients, lookups: lookups}
}

func (r *InMemoryStatsRepository) CatalogStats(ctx context.Context) (CatalogStats, error) {
	s := CatalogStats{
		TotalProducts: r.products.Count(),
		TotalClients:  r.clients.Count(),
	}

	categories, err := r.lookups.Categories(ctx)
	if err != nil {
		return s, err
	}
	brands, err := r.lookups.Brands(ctx)
	if err != nil {
		return s, err
	}
	s.TotalCategories = len(categories)
	s.TotalBrands = len(brands)
	return s, nil
}
