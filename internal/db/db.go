package db

import (
	"context"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "pgx"
)

type Config struct {
	Driver       string
	DSN          string
	MaxOpenConns int
}

// Connect opens the pool and verifies it with a ping.
func Connect(ctx context.Context, cfg Config) (*sqlx.DB, error) {
	dsn, err := NormalizeDSN(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Open(cfg.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
		db.SetMaxIdleConns(cfg.MaxOpenConns)
	}
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

// NormalizeDSN validates the DSN for the driver. MySQL DSNs get parseTime and clientFoundRows
// so that an UPDATE that changes nothing still reports the matched row.
func NormalizeDSN(driver, dsn string) (string, error) {
	if dsn == "" {
		return "", fmt.Errorf("database DSN is empty")
	}

	switch driver {
	case DriverMySQL:
		cfg, err := mysql.ParseDSN(dsn)
		if err != nil {
			return "", fmt.Errorf("invalid mysql DSN: %w", err)
		}
		cfg.ParseTime = true
		cfg.ClientFoundRows = true
		return cfg.FormatDSN(), nil
	case DriverPostgres:
		return dsn, nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", driver)
	}
}

// Dialect maps a driver name to its migrations directory.
func Dialect(driver string) string {
	if driver == DriverPostgres {
		return "postgres"
	}
	return "mysql"
}
