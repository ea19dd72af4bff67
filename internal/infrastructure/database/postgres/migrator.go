package postgres

import (
	stderrors "errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres" // database driver
	_ "github.com/golang-migrate/migrate/v4/source/file"       // file source driver

	"github.com/turtacn/ChemNomen/internal/config"
	"github.com/turtacn/ChemNomen/pkg/errors"
)

// RunMigrations applies every pending migration from the configured
// migration path.  It is called at apiserver startup so the name-record
// schema is always current; an already up-to-date schema is not an error.
func RunMigrations(cfg config.DatabaseConfig) error {
	if cfg.MigrationPath == "" {
		return nil
	}
	m, err := migrate.New(sourceURL(cfg.MigrationPath), buildConnString(cfg))
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeMigrationFailed, "failed to create migrate instance")
	}
	defer m.Close()

	if err := m.Up(); err != nil && !stderrors.Is(err, migrate.ErrNoChange) {
		return errors.Wrap(err, errors.ErrCodeMigrationFailed, "failed to run migrations")
	}
	return nil
}

// RollbackMigrations rolls the schema back by the given number of steps.
// Development and test use only.
func RollbackMigrations(cfg config.DatabaseConfig, steps int) error {
	if steps <= 0 {
		return errors.New(errors.ErrCodeBadRequest,
			fmt.Sprintf("steps must be greater than 0, got %d", steps))
	}
	m, err := migrate.New(sourceURL(cfg.MigrationPath), buildConnString(cfg))
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeMigrationFailed, "failed to create migrate instance")
	}
	defer m.Close()

	if err := m.Steps(-steps); err != nil && !stderrors.Is(err, migrate.ErrNoChange) {
		return errors.Wrap(err, errors.ErrCodeMigrationFailed,
			fmt.Sprintf("failed to roll back %d step(s)", steps))
	}
	return nil
}

// MigrationStatus reports the current schema version and whether a failed
// migration left it dirty.  A never-migrated database reports version 0.
func MigrationStatus(cfg config.DatabaseConfig) (version uint, dirty bool, err error) {
	m, err := migrate.New(sourceURL(cfg.MigrationPath), buildConnString(cfg))
	if err != nil {
		return 0, false, errors.Wrap(err, errors.ErrCodeMigrationFailed, "failed to create migrate instance")
	}
	defer m.Close()

	version, dirty, err = m.Version()
	if err != nil {
		if stderrors.Is(err, migrate.ErrNilVersion) {
			return 0, false, nil
		}
		return 0, false, errors.Wrap(err, errors.ErrCodeMigrationFailed, "failed to get migration version")
	}
	return version, dirty, nil
}

// sourceURL normalizes a migration path into a file:// source URL.
func sourceURL(path string) string {
	if len(path) >= 7 && path[:7] == "file://" {
		return path
	}
	return "file://" + path
}
