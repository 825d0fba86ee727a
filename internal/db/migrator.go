package db

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/go-extras/go-kit/must"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
)

//go:embed migrations
var migrationsFS embed.FS

const migrationsTableSQL = `CREATE TABLE IF NOT EXISTS schema_migrations (
	version INTEGER PRIMARY KEY,
	description VARCHAR(255) NOT NULL,
	applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

var migrationFileRe = regexp.MustCompile(`^(\d+)_([a-z0-9_]+)\.(up|down)\.sql$`)

// Migration is one numbered schema change with its rollback.
type Migration struct {
	Version     int
	Description string
	Up          string
	Down        string
}

// MigrationStatus represents the current state of migrations
type MigrationStatus struct {
	CurrentVersion    int
	PendingMigrations []int
	TotalMigrations   int
}

// Migrator applies the embedded SQL migrations and records them in schema_migrations.
type Migrator struct {
	db         *sqlx.DB
	migrations []Migration
	logger     zerolog.Logger
}

// MigrationsFS returns the embedded migrations for the driver's dialect.
func MigrationsFS(driver string) fs.FS {
	return must.Must(fs.Sub(migrationsFS, "migrations/"+Dialect(driver)))
}

// NewMigrator loads NNNNNNNNNN_name.up.sql / .down.sql pairs from fsys.
func NewMigrator(db *sqlx.DB, fsys fs.FS) (*Migrator, error) {
	migrations, err := LoadMigrations(fsys)
	if err != nil {
		return nil, err
	}
	return &Migrator{db: db, migrations: migrations, logger: zerolog.Nop()}, nil
}

// WithLogger sets the logger for the migrator
func (m *Migrator) WithLogger(l zerolog.Logger) *Migrator {
	tmp := *m
	tmp.logger = l
	return &tmp
}

func LoadMigrations(fsys fs.FS) ([]Migration, error) {
	byVersion := map[int]*Migration{}

	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		match := migrationFileRe.FindStringSubmatch(d.Name())
		if match == nil {
			return nil
		}
		version, err := strconv.Atoi(match[1])
		if err != nil {
			return fmt.Errorf("migration %s: %w", d.Name(), err)
		}
		body, err := fs.ReadFile(fsys, path)
		if err != nil {
			return err
		}

		mig, ok := byVersion[version]
		if !ok {
			mig = &Migration{Version: version, Description: strings.ReplaceAll(match[2], "_", " ")}
			byVersion[version] = mig
		}
		if match[3] == "up" {
			mig.Up = string(body)
		} else {
			mig.Down = string(body)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan migrations: %w", err)
	}

	migrations := make([]Migration, 0, len(byVersion))
	var incomplete []int
	for _, mig := range byVersion {
		if mig.Up == "" || mig.Down == "" {
			incomplete = append(incomplete, mig.Version)
		}
		migrations = append(migrations, *mig)
	}
	if len(incomplete) > 0 {
		sort.Ints(incomplete)
		return nil, fmt.Errorf("incomplete migrations found (missing up or down files): %v", incomplete)
	}

	sort.Slice(migrations, func(i, j int) bool { return migrations[i].Version < migrations[j].Version })
	return migrations, nil
}

func (m *Migrator) initialize(ctx context.Context) error {
	if _, err := m.db.ExecContext(ctx, migrationsTableSQL); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}
	return nil
}

func (m *Migrator) currentVersion(ctx context.Context) (int, error) {
	var version int
	if err := m.db.GetContext(ctx, &version, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`); err != nil {
		return 0, fmt.Errorf("failed to get current version: %w", err)
	}
	return version, nil
}

// Up migrates the database up to the latest version
func (m *Migrator) Up(ctx context.Context) error {
	if err := m.initialize(ctx); err != nil {
		return err
	}
	current, err := m.currentVersion(ctx)
	if err != nil {
		return err
	}

	m.logger.Info().Int("current_version", current).Int("total", len(m.migrations)).Msg("migrating up")

	for _, mig := range m.migrations {
		if mig.Version <= current {
			continue
		}
		m.logger.Info().Int("version", mig.Version).Str("description", mig.Description).Msg("applying migration")

		err := m.inTx(ctx, mig.Up, func(tx *sqlx.Tx) error {
			_, err := tx.ExecContext(ctx, tx.Rebind(`INSERT INTO schema_migrations (version, description) VALUES (?, ?)`), mig.Version, mig.Description)
			return err
		})
		if err != nil {
			return fmt.Errorf("failed to apply migration %d: %w", mig.Version, err)
		}
	}

	m.logger.Info().Msg("all migrations applied")
	return nil
}

// Down rolls back the most recently applied migration.
func (m *Migrator) Down(ctx context.Context) error {
	if err := m.initialize(ctx); err != nil {
		return err
	}
	current, err := m.currentVersion(ctx)
	if err != nil {
		return err
	}
	if current == 0 {
		m.logger.Info().Msg("no migrations to roll back")
		return nil
	}

	for _, mig := range m.migrations {
		if mig.Version != current {
			continue
		}
		m.logger.Info().Int("version", mig.Version).Str("description", mig.Description).Msg("rolling back migration")
		err := m.inTx(ctx, mig.Down, func(tx *sqlx.Tx) error {
			_, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM schema_migrations WHERE version = ?`), mig.Version)
			return err
		})
		if err != nil {
			return fmt.Errorf("failed to roll back migration %d: %w", mig.Version, err)
		}
		return nil
	}
	return fmt.Errorf("applied migration %d is not known to this binary", current)
}

func (m *Migrator) Status(ctx context.Context) (MigrationStatus, error) {
	if err := m.initialize(ctx); err != nil {
		return MigrationStatus{}, err
	}
	current, err := m.currentVersion(ctx)
	if err != nil {
		return MigrationStatus{}, err
	}

	status := MigrationStatus{CurrentVersion: current, TotalMigrations: len(m.migrations)}
	for _, mig := range m.migrations {
		if mig.Version > current {
			status.PendingMigrations = append(status.PendingMigrations, mig.Version)
		}
	}
	return status, nil
}

// inTx runs every statement of script and then record inside one transaction.
// MySQL commits DDL implicitly, so the transaction only protects the data statements there.
func (m *Migrator) inTx(ctx context.Context, script string, record func(*sqlx.Tx) error) error {
	tx, err := m.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range SplitStatements(script) {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%w (statement: %.60s)", err, stmt)
		}
	}
	if err := record(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// SplitStatements splits a script on semicolons that end a line and drops comment-only lines.
// The migration files never put a semicolon at the end of a line inside a literal.
func SplitStatements(script string) []string {
	var (
		stmts []string
		cur   strings.Builder
	)
	for _, line := range strings.Split(script, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}
		cur.WriteString(line)
		cur.WriteString("\n")
		if strings.HasSuffix(trimmed, ";") {
			stmt := strings.TrimSuffix(strings.TrimSpace(cur.String()), ";")
			stmts = append(stmts, stmt)
			cur.Reset()
		}
	}
	if rest := strings.TrimSpace(cur.String()); rest != "" {
		stmts = append(stmts, rest)
	}
	return stmts
}
