package sqlstore

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations
var migrations embed.FS

func migrationsDir(driver string) string {
	switch driver {
	case DriverPostgres:
		return "migrations/postgres"
	case DriverSQLite:
		return "migrations/sqlite3"
	default:
		return "migrations/mysql"
	}
}

// Migrate applies every pending migration for the configured driver.
// The migrate instance is not closed: closing it would close the pool.
func (s *Storage) Migrate() error {
	const op = "storage.sqlstore.Migrate"

	src, err := iofs.New(migrations, migrationsDir(s.driver))
	if err != nil {
		return fmt.Errorf("%s: source: %w", op, err)
	}

	var drv database.Driver
	switch s.driver {
	case DriverPostgres:
		drv, err = migratepgx.WithInstance(s.db.DB, &migratepgx.Config{})
	case DriverSQLite:
		drv, err = migratesqlite.WithInstance(s.db.DB, &migratesqlite.Config{})
	default:
		drv, err = migratemysql.WithInstance(s.db.DB, &migratemysql.Config{})
	}
	if err != nil {
		return fmt.Errorf("%s: driver: %w", op, err)
	}

	m, err := migrate.NewWithInstance("iofs", src, s.driver, drv)
	if err != nil {
		return fmt.Errorf("%s: init: %w", op, err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("%s: up: %w", op, err)
	}
	return nil
}
