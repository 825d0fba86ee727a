package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/rogerio-castellano/catalog-admin/internal/models"
)

type SQLClientRepository struct {
	db *sqlx.DB
}

func NewSQLClientRepository(db *sqlx.DB) *SQLClientRepository {
	return &SQLClientRepository{db: db}
}

func (r *SQLClientRepository) List(ctx context.Context) ([]models.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	clients := []models.Client{}
	if err := r.db.SelectContext(ctx, &clients, `SELECT id_usuario, nombre, mail FROM clientes ORDER BY id_usuario`); err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	return clients, nil
}

func (r *SQLClientRepository) Create(ctx context.Context, c models.Client) (models.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	id, err := insertReturningID(ctx, r.db, `INSERT INTO clientes (nombre, mail) VALUES (?, ?)`, "id_usuario", c.Name, c.Email)
	if err != nil {
		return models.Client{}, fmt.Errorf("insert client: %w", err)
	}
	c.ID = id
	return c, nil
}

func (r *SQLClientRepository) GetByID(ctx context.Context, id int) (models.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var c models.Client
	err := r.db.GetContext(ctx, &c, r.db.Rebind(`SELECT id_usuario, nombre, mail FROM clientes WHERE id_usuario = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Client{}, ErrClientNotFound
	}
	return c, err
}

func (r *SQLClientRepository) Update(ctx context.Context, c models.Client) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	return execAffectingRow(ctx, r.db, ErrClientNotFound,
		`UPDATE clientes SET nombre = ?, mail = ? WHERE id_usuario = ?`, c.Name, c.Email, c.ID)
}

func (r *SQLClientRepository) Delete(ctx context.Context, id int) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	return execAffectingRow(ctx, r.db, ErrClientNotFound, `DELETE FROM clientes WHERE id_usuario = ?`, id)
}
