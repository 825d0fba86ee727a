package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/rogerio-castellano/catalog-admin/internal/models"
)

type SQLUserRepository struct {
	db *sqlx.DB
}

func NewSQLUserRepository(db *sqlx.DB) *SQLUserRepository {
	return &SQLUserRepository{db: db}
}

func (r *SQLUserRepository) GetByUsername(ctx context.Context, username string) (models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var u models.User
	err := r.db.GetContext(ctx, &u, r.db.Rebind(`SELECT id, usuario, password FROM usuarios WHERE usuario = ?`), username)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	return u, err
}

func (r *SQLUserRepository) GetByID(ctx context.Context, id int) (models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var u models.User
	err := r.db.GetContext(ctx, &u, r.db.Rebind(`SELECT id, usuario, password FROM usuarios WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	return u, err
}

func (r *SQLUserRepository) CreateUser(ctx context.Context, u models.User) (models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	id, err := insertReturningID(ctx, r.db, `INSERT INTO usuarios (usuario, password) VALUES (?, ?)`, "id", u.Username, u.PasswordHash)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, ErrDuplicateUsername
		}
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}
	u.ID = id
	return u, nil
}
