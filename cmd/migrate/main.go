package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/samirrijal/ridemap/internal/adapters/postgres"
	"github.com/samirrijal/ridemap/internal/core/domain"
	"github.com/samirrijal/ridemap/internal/pkg/config"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: migrate <up|down|seed>")
	}

	cfg, err := config.Load("ridemap-migrate")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()
	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	switch os.Args[1] {
	case "up":
		runMigrations(ctx, db.Pool, "up")
	case "down":
		runMigrations(ctx, db.Pool, "down")
	case "seed":
		seedRoutes(ctx, db, cfg)
	default:
		log.Fatalf("unknown command: %s", os.Args[1])
	}
}

// runMigrations applies migrations/*.<direction>.sql, newest first for down.
func runMigrations(ctx context.Context, pool *pgxpool.Pool, direction string) {
	files, err := filepath.Glob(filepath.Join("migrations", "*."+direction+".sql"))
	if err != nil {
		log.Fatalf("glob migrations: %v", err)
	}
	if len(files) == 0 {
		log.Fatalf("no %s migrations found in ./migrations", direction)
	}

	sort.Strings(files)
	if direction == "down" {
		sort.Sort(sort.Reverse(sort.StringSlice(files)))
	}

	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			log.Fatalf("read %s: %v", f, err)
		}

		if _, err := pool.Exec(ctx, string(data)); err != nil {
			log.Fatalf("exec %s: %v", f, err)
		}

		fmt.Printf("OK  %s\n", f)
	}

	log.Printf("all %s migrations applied", direction)
}

// seedRoutes copies the configured routes into the routes table, so a
// deployment can switch registry.source to postgres.
func seedRoutes(ctx context.Context, db *postgres.DB, cfg *config.Config) {
	routes := cfg.RouteDescriptors()

	// Validate with the same rules the server applies at start-up.
	if _, err := domain.NewRegistry(routes, cfg.Registry.DefaultRoute); err != nil {
		log.Fatalf("configured routes: %v", err)
	}

	if err := postgres.NewRouteRepo(db).UpsertBatch(ctx, routes); err != nil {
		log.Fatalf("seed routes: %v", err)
	}

	for _, rd := range routes {
		fmt.Printf("OK  %s -> %s\n", rd.ID, rd.Source)
	}
	log.Printf("seeded %d routes", len(routes))
}
