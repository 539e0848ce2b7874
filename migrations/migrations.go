// Package migrations embeds the catalog schema for every supported driver.
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed sqlite/*.sql postgres/*.sql
var fsys embed.FS

var dirs = map[string]string{
	"sqlite": "sqlite",
	"pgx":    "postgres",
}

// Up applies all pending migrations of driver to db.
// Already applied migrations are not an error.
// The logger may be nil.
func Up(db *sql.DB, driver string, logger migrate.Logger) error {
	const op = "migrations.Up"

	dir, ok := dirs[driver]
	if !ok {
		return fmt.Errorf("%s: unsupported driver %q", op, driver)
	}

	src, err := iofs.New(fsys, dir)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	dbDriver, err := databaseDriver(db, driver)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	m, err := migrate.NewWithInstance("iofs", src, driver, dbDriver)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	m.Log = logger

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			if logger != nil {
				logger.Printf("no migrations to apply")
			}
			return nil
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	if logger != nil {
		logger.Printf("migration applied")
	}
	return nil
}

func databaseDriver(db *sql.DB, driver string) (database.Driver, error) {
	if driver == "pgx" {
		return migratepgx.WithInstance(db, &migratepgx.Config{})
	}
	return migratesqlite.WithInstance(db, &migratesqlite.Config{})
}
