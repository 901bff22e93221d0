package migrations

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Up applies every pending migration found at path (a directory or a file:// URL).
// It reports whether anything was applied.
func Up(databaseURL, path string, logger *slog.Logger) (bool, error) {
	// migrate needs a database/sql handle; the pgx stdlib driver keeps us on one driver.
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return false, fmt.Errorf("failed to open database connection for migrations: %w", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()
	if err := db.Ping(); err != nil {
		return false, fmt.Errorf("failed to ping database for migrations: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return false, fmt.Errorf("could not create postgres driver instance for migrations: %w", err)
	}

	if !strings.HasPrefix(path, "file://") {
		path = "file://" + path
	}
	m, err := migrate.NewWithDatabaseInstance(path, "postgres", driver)
	if err != nil {
		return false, fmt.Errorf("could not create migrate instance: %w", err)
	}

	upErr := m.Up()
	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		logger.Warn("Migration source error", slog.String("error", sourceErr.Error()))
	}
	if dbErr != nil {
		logger.Warn("Migration database error", slog.String("error", dbErr.Error()))
	}
	if errors.Is(upErr, migrate.ErrNoChange) {
		logger.Info("No new migrations to apply.")
		return false, nil
	}
	if upErr != nil {
		return false, fmt.Errorf("failed to apply migrations: %w", upErr)
	}
	logger.Info("Database migrations applied successfully.", slog.String("path", path))
	return true, nil
}
