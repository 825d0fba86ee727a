package repo_test

import (
	"context"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/rogerio-castellano/catalog-admin/internal/models"
	"github.com/rogerio-castellano/catalog-admin/internal/repo"
)

func TestInMemoryClientRepository_CRUD(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	clients := repo.NewInMemoryClientRepository()

	created, err := clients.Create(ctx, models.Client{Name: "Lucía", Email: "lucia@example.com"})
	c.Assert(err, qt.IsNil)

	list, err := clients.List(ctx)
	c.Assert(err, qt.IsNil)
	c.Assert(list, qt.DeepEquals, []models.Client{created})

	c.Assert(clients.Update(ctx, models.Client{ID: created.ID, Name: "Lucía G.", Email: "lg@example.com"}), qt.IsNil)
	got, err := clients.GetByID(ctx, created.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.DeepEquals, models.Client{ID: created.ID, Name: "Lucía G.", Email: "lg@example.com"})

	c.Assert(clients.Delete(ctx, created.ID), qt.IsNil)
	_, err = clients.GetByID(ctx, created.ID)
	c.Assert(err, qt.ErrorIs, repo.ErrClientNotFound)
	c.Assert(clients.Delete(ctx, created.ID), qt.ErrorIs, repo.ErrClientNotFound)
}

func TestInMemoryStatsRepository(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	lookups := repo.NewInMemoryLookupRepository(
		[]models.Category{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}},
		[]models.Brand{{ID: 1, Name: "X"}},
	)
	products := repo.NewInMemoryProductRepository(lookups)
	clients := repo.NewInMemoryClientRepository()
	_, _ = products.Create(ctx, models.Product{Name: "p"})
	_, _ = clients.Create(ctx, models.Client{Name: "c", Email: "c@example.com"})
	_, _ = clients.Create(ctx, models.Client{Name: "d", Email: "d@example.com"})

	stats, err := repo.NewInMemoryStatsRepository(products, clients, lookups).CatalogStats(ctx)
	c.Assert(err, qt.IsNil)
	c.Assert(stats, qt.Equals, repo.CatalogStats{TotalProducts: 1, TotalClients: 2, TotalCategories: 2, TotalBrands: 1})
}
