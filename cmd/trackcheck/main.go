// Command trackcheck parses every registered track once and reports its
// point count and length. It exits non-zero if any track fails to load.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/samirrijal/ridemap/internal/adapters/filesystem"
	"github.com/samirrijal/ridemap/internal/adapters/gpx"
	"github.com/samirrijal/ridemap/internal/adapters/postgres"
	"github.com/samirrijal/ridemap/internal/bootstrap"
	"github.com/samirrijal/ridemap/internal/core/domain"
	"github.com/samirrijal/ridemap/internal/core/ports"
	"github.com/samirrijal/ridemap/internal/core/usecases"
	"github.com/samirrijal/ridemap/internal/pkg/config"
	"github.com/samirrijal/ridemap/internal/pkg/logging"
)

func main() {
	cfg, err := config.Load("ridemap-trackcheck")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.Log.Level, "text")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	var repo ports.RouteRepository
	if cfg.Registry.Source == "postgres" {
		db, err := postgres.New(ctx, cfg.Database.DSN())
		if err != nil {
			log.Fatalf("db: %v", err)
		}
		defer db.Close()
		repo = postgres.NewRouteRepo(db)
	}

	registry, err := bootstrap.Registry(ctx, cfg, repo)
	if err != nil {
		log.Fatalf("registry: %v", err)
	}

	store := usecases.NewTrackStore(registry, filesystem.New(cfg.Registry.BaseDir), gpx.NewParser())
	failed := store.Warm(ctx)

	for _, rd := range registry.All() {
		if err, ok := failed[rd.ID]; ok {
			fmt.Printf("FAIL  %-24s %-8s %v\n", rd.ID, domain.ErrorKind(err), err)
			continue
		}
		sum, err := store.Describe(ctx, rd.ID)
		if err != nil {
			fmt.Printf("FAIL  %-24s %v\n", rd.ID, err)
			continue
		}
		fmt.Printf("OK    %-24s %6d points %9.2f km\n", rd.ID, sum.Points, sum.LengthMeters/1000)
	}

	if len(failed) > 0 {
		slog.Error("track check failed", "failed", len(failed), "total", registry.Len())
		os.Exit(1)
	}
	slog.Info("all tracks loaded", "total", registry.Len())
}
