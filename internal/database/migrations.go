package database

import (
	"embed"
	"fmt"
	"path"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

//go:embed migrations/*/*.sql
var migrationsFS embed.FS

// MigrationsDir is the embedded directory holding the dialect's migrations.
func MigrationsDir(d Dialect) string {
	return path.Join("migrations", string(d))
}

func prepareGoose(db *DB) error {
	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect(db.Dialect.GooseDialect()); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return nil
}

// RunMigrations executes all pending database migrations
func RunMigrations(db *DB, logger *zap.Logger) error {
	if err := prepareGoose(db); err != nil {
		return err
	}

	dir := MigrationsDir(db.Dialect)
	logger.Info("Checking for pending migrations...", zap.String("dir", dir))

	if err := goose.Up(db.DB, dir); err != nil {
		logger.Error("Failed to run migrations", zap.Error(err))
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("Migrations completed successfully")
	return nil
}

// MigrationVersion returns the currently applied schema version.
func MigrationVersion(db *DB) (int64, error) {
	if err := prepareGoose(db); err != nil {
		return 0, err
	}
	return goose.GetDBVersion(db.DB)
}
