package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

// Pipeline schema: analyses, user_analytics, analytics_trend.
//
//go:embed migrations/*.sql
var migrationFS embed.FS

// RunMigrations applies any pending embedded migrations. A nil handle is a
// no-op so startup can share this path with the memory-backed fallback.
func RunMigrations(ctx context.Context, database *sql.DB) error {
	if database == nil {
		return nil
	}
	goose.SetBaseFS(migrationFS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set migration dialect: %w", err)
	}
	if err := goose.UpContext(ctx, database, "migrations"); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}
