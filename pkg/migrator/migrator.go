// Package migrator applies the embedded goose migrations of a bounded context.
package migrator

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/ghuser/catalog/pkg/logger"
)

// RunMigrations opens dbURL and applies every pending migration in files.
func RunMigrations(ctx context.Context, dbURL string, files fs.FS, log logger.Logger) error {
	return withProvider(ctx, dbURL, files, func(p *goose.Provider) error {
		return up(ctx, p, log)
	})
}

// LogStatus opens dbURL and logs each migration with its applied state.
func LogStatus(ctx context.Context, dbURL string, files fs.FS, log logger.Logger) error {
	return withProvider(ctx, dbURL, files, func(p *goose.Provider) error {
		statuses, err := p.Status(ctx)
		if err != nil {
			return fmt.Errorf("migration status: %w", err)
		}
		for _, s := range statuses {
			log.InfoContext(ctx, "migration",
				"version", s.Source.Version,
				"path", s.Source.Path,
				"state", string(s.State),
				"applied_at", s.AppliedAt,
			)
		}
		return nil
	})
}

// Up applies pending migrations on an already open connection.
func Up(ctx context.Context, db *sql.DB, files fs.FS, log logger.Logger) error {
	p, err := goose.NewProvider(goose.DialectPostgres, db, files)
	if err != nil {
		return fmt.Errorf("failed to create goose provider: %w", err)
	}
	return up(ctx, p, log)
}

func withProvider(ctx context.Context, dbURL string, files fs.FS, fn func(*goose.Provider) error) error {
	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close() //nolint:errcheck

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to reach database: %w", err)
	}
	p, err := goose.NewProvider(goose.DialectPostgres, db, files)
	if err != nil {
		return fmt.Errorf("failed to create goose provider: %w", err)
	}
	return fn(p)
}

func up(ctx context.Context, p *goose.Provider, log logger.Logger) error {
	results, err := p.Up(ctx)
	if err != nil {
		return fmt.Errorf("failed to up migrations: %w", err)
	}
	if len(results) == 0 {
		log.InfoContext(ctx, "schema up to date")
	}
	for _, r := range results {
		log.InfoContext(ctx, "migration applied",
			"version", r.Source.Version,
			"path", r.Source.Path,
			"duration_ms", r.Duration.Milliseconds(),
		)
	}
	return nil
}
