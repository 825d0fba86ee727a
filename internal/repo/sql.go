package repo

import (
	"context"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
)

const queryTimeout = 3 * time.Second

const (
	mysqlDuplicateEntry     = 1062
	postgresUniqueViolation = "23505"
)

func isUniqueViolation(err error) bool {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlDuplicateEntry
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == postgresUniqueViolation
	}
	return false
}

func usesReturning(db *sqlx.DB) bool {
	return sqlx.BindType(db.DriverName()) == sqlx.DOLLAR
}

// insertReturningID runs an INSERT written with ? placeholders and returns the generated key.
// PostgreSQL has no LastInsertId, so the key column is requested with RETURNING there.
func insertReturningID(ctx context.Context, db *sqlx.DB, query, idColumn string, args ...any) (int, error) {
	if usesReturning(db) {
		var id int
		err := db.QueryRowxContext(ctx, db.Rebind(query+" RETURNING "+idColumn), args...).Scan(&id)
		return id, err
	}

	res, err := db.ExecContext(ctx, db.Rebind(query), args...)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	return int(id), err
}

// execAffectingRow runs an UPDATE/DELETE and reports notFound when no row matched.
func execAffectingRow(ctx context.Context, db *sqlx.DB, notFound error, query string, args ...any) error {
	res, err := db.ExecContext(ctx, db.Rebind(query), args...)
	if err != nil {
		return err
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return notFound
	}
	return nil
}
