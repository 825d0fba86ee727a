package cli

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/rogerio-castellano/catalog-admin/internal/auth"
	"github.com/rogerio-castellano/catalog-admin/internal/config"
	"github.com/rogerio-castellano/catalog-admin/internal/db"
	"github.com/rogerio-castellano/catalog-admin/internal/logger"
	"github.com/rogerio-castellano/catalog-admin/internal/redissvc"
	"github.com/rogerio-castellano/catalog-admin/internal/repo"
)

// app holds the process-wide resources shared by the commands.
type app struct {
	cfg *config.Config
	log zerolog.Logger
	db  *sqlx.DB
	rdb *redis.Client
}

func bootstrap(ctx context.Context, cfgPath string) (*app, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	log, err := logger.Init(logger.Options{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty, File: cfg.Log.File})
	if err != nil {
		return nil, err
	}
	if cfg.UsesDevSecret() {
		log.Warn().Msg("sessions are signed with the built-in development secret; set session.secret before deploying")
	}

	database, err := db.Connect(ctx, db.Config{
		Driver:       cfg.Database.Driver,
		DSN:          cfg.Database.DSN,
		MaxOpenConns: cfg.Database.MaxOpenConns,
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("driver", cfg.Database.Driver).Msg("connected to database")

	return &app{cfg: cfg, log: log, db: database}, nil
}

func (a *app) migrator() (*db.Migrator, error) {
	m, err := db.NewMigrator(a.db, db.MigrationsFS(a.cfg.Database.Driver))
	if err != nil {
		return nil, err
	}
	return m.WithLogger(a.log.With().Str("component", "migrator").Logger()), nil
}

// sessionStore returns the configured store, connecting to Redis when needed.
func (a *app) sessionStore(ctx context.Context) (auth.SessionStore, error) {
	if a.cfg.Session.Store != "redis" {
		return auth.NewMemoryStore(), nil
	}
	rdb, err := redissvc.Connect(ctx, redissvc.Config{Addr: a.cfg.Redis.Addr, DB: a.cfg.Redis.DB})
	if err != nil {
		return nil, err
	}
	a.rdb = rdb
	a.log.Info().Str("addr", a.cfg.Redis.Addr).Msg("connected to redis")
	return auth.NewRedisStore(rdb), nil
}

func (a *app) sessionManager(store auth.SessionStore) (*auth.SessionManager, error) {
	m, err := auth.NewSessionManager(
		repo.NewSQLUserRepository(a.db),
		store,
		auth.NewBcryptHasher(a.cfg.Auth.BcryptCost),
		auth.Options{Secret: a.cfg.Session.Secret, TTL: a.cfg.Session.TTL},
	)
	if err != nil {
		return nil, err
	}
	return m.WithLogger(a.log.With().Str("component", "auth").Logger()), nil
}

// ready reports whether the database and, when used, Redis answer.
func (a *app) ready(ctx context.Context) error {
	if err := a.db.PingContext(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if a.rdb != nil {
		if err := redissvc.Ping(ctx, a.rdb); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
	}
	return nil
}

func (a *app) Close() {
	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			a.log.Warn().Err(err).Msg("closing redis client")
		}
	}
	if err := a.db.Close(); err != nil {
		a.log.Warn().Err(err).Msg("closing database")
	}
}
