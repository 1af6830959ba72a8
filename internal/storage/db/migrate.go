package db

import (
	"embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrate applies every pending migration embedded in the binary.
func Migrate(pool *pgxpool.Pool) error {
	return MigrateTo(pool, 0)
}

// MigrateTo moves the schema to version. Zero means the latest version;
// a version below the current one rolls migrations back.
func MigrateTo(pool *pgxpool.Pool, version int64) error {
	goose.SetBaseFS(migrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	sqlDB := stdlib.OpenDBFromPool(pool)
	defer sqlDB.Close()

	if version == 0 {
		if err := goose.Up(sqlDB, "migrations"); err != nil {
			return fmt.Errorf("goose up: %w", err)
		}
		return nil
	}

	current, err := goose.GetDBVersion(sqlDB)
	if err != nil {
		return fmt.Errorf("goose get db version: %w", err)
	}

	if version < current {
		if err := goose.DownTo(sqlDB, "migrations", version); err != nil {
			return fmt.Errorf("goose down to %d: %w", version, err)
		}
		return nil
	}

	if err := goose.UpTo(sqlDB, "migrations", version); err != nil {
		return fmt.Errorf("goose up to %d: %w", version, err)
	}

	return nil
}
