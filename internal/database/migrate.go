package database

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// RunMigrations applies all pending up-migrations. The schema includes
// the pgvector extension, so the target database must allow
// CREATE EXTENSION for the migrating role.
func RunMigrations(dsn, migrationsPath string) error {
	m, err := migrate.New(
		fmt.Sprintf("file://%s", migrationsPath),
		dsn,
	)
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}
	defer m.Close()

	err = m.Up()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		slog.Info("database schema unchanged")
	case err != nil:
		return fmt.Errorf("running migrations: %w", err)
	default:
		ver, _, _ := m.Version()
		slog.Info("database schema migrated", "version", ver)
	}
	return nil
}
