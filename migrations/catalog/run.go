// Command catalog applies the catalog schema migrations embedded below.
// Pass -status to list migrations and their applied state instead.
package main

import (
	"context"
	"embed"
	"flag"
	"log/slog"
	"os"

	"github.com/ghuser/catalog/pkg/config"
	"github.com/ghuser/catalog/pkg/logger"
	"github.com/ghuser/catalog/pkg/migrator"
)

//go:embed *.sql
var MigrationsFS embed.FS

func main() {
	status := flag.Bool("status", false, "list migrations instead of applying them")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg).With("component", "migrations")
	ctx := context.Background()

	run := migrator.RunMigrations
	if *status {
		run = migrator.LogStatus
	}
	if err := run(ctx, cfg.DatabaseURL, MigrationsFS, log); err != nil {
		log.Error("catalog migrations failed", "error", err)
		os.Exit(1)
	}
}
