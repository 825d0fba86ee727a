package db_test

import (
	"testing"
	"testing/fstest"

	qt "github.com/frankban/quicktest"

	"github.com/rogerio-castellano/catalog-admin/internal/db"
)

func TestLoadMigrations(t *testing.T) {
	c := qt.New(t)
	fsys := fstest.MapFS{
		"0000000002_add_index.up.sql":   &fstest.MapFile{Data: []byte("CREATE INDEX idx ON t(x);")},
		"0000000002_add_index.down.sql": &fstest.MapFile{Data: []byte("DROP INDEX idx;")},
		"0000000001_create_t.up.sql":    &fstest.MapFile{Data: []byte("CREATE TABLE t (x INT);")},
		"0000000001_create_t.down.sql":  &fstest.MapFile{Data: []byte("DROP TABLE t;")},
		"README.md":                     &fstest.MapFile{Data: []byte("ignored")},
	}

	migrations, err := db.LoadMigrations(fsys)
	c.Assert(err, qt.IsNil)
	c.Assert(migrations, qt.HasLen, 2)
	c.Assert(migrations[0].Version, qt.Equals, 1)
	c.Assert(migrations[0].Description, qt.Equals, "create t")
	c.Assert(migrations[0].Up, qt.Equals, "CREATE TABLE t (x INT);")
	c.Assert(migrations[1].Version, qt.Equals, 2)
	c.Assert(migrations[1].Down, qt.Equals, "DROP INDEX idx;")
}

func TestLoadMigrations_Incomplete(t *testing.T) {
	c := qt.New(t)
	fsys := fstest.MapFS{
		"0000000001_create_t.up.sql": &fstest.MapFile{Data: []byte("CREATE TABLE t (x INT);")},
	}

	_, err := db.LoadMigrations(fsys)
	c.Assert(err, qt.ErrorMatches, `incomplete migrations found .*\[1\]`)
}

func TestEmbeddedMigrations(t *testing.T) {
	for _, driver := range []string{db.DriverMySQL, db.DriverPostgres} {
		t.Run(driver, func(t *testing.T) {
			c := qt.New(t)
			migrations, err := db.LoadMigrations(db.MigrationsFS(driver))
			c.Assert(err, qt.IsNil)
			c.Assert(migrations, qt.HasLen, 2)
			c.Assert(migrations[0].Description, qt.Equals, "create catalog tables")
			c.Assert(db.SplitStatements(migrations[0].Up), qt.HasLen, 5)
		})
	}
}

func TestSplitStatements(t *testing.T) {
	c := qt.New(t)
	script := `-- header comment
CREATE TABLE a (
    id INT
);

INSERT INTO a (id) VALUES (1), (2);
SELECT 1`

	stmts := db.SplitStatements(script)
	c.Assert(stmts, qt.DeepEquals, []string{
		"CREATE TABLE a (\n    id INT\n)",
		"INSERT INTO a (id) VALUES (1), (2)",
		"SELECT 1",
	})
}
