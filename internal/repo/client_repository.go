package repo

import (
	"context"

	"github.com/rogerio-castellano/catalog-admin/internal/models"
)

type ClientRepository interface {
	List(ctx context.Context) ([]models.Client, error)
	Create(ctx context.Context, c models.Client) (models.Client, error)
	GetByID(ctx context.Context, id int) (models.Client, error)
	Update(ctx context.Context, c models.Client) error
	Delete(ctx context.Context, id int) error
}
