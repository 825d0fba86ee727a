package repo

import (
	"context"

	"github.com/rogerio-castellano/catalog-admin/internal/models"
)

// UserRepository is the credential store backing the usuarios table.
type UserRepository interface {
	GetByUsername(ctx context.Context, username string) (models.User, error)
	GetByID(ctx context.Context, id int) (models.User, error)
	CreateUser(ctx context.Context, u models.User) (models.User, error)
}
