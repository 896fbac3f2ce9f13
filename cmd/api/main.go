package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/samirrijal/ridemap/internal/adapters/filesystem"
	"github.com/samirrijal/ridemap/internal/adapters/gpx"
	"github.com/samirrijal/ridemap/internal/adapters/http"
	natsadapter "github.com/samirrijal/ridemap/internal/adapters/nats"
	"github.com/samirrijal/ridemap/internal/adapters/postgres"
	"github.com/samirrijal/ridemap/internal/adapters/valkey"
	"github.com/samirrijal/ridemap/internal/bootstrap"
	"github.com/samirrijal/ridemap/internal/core/ports"
	"github.com/samirrijal/ridemap/internal/core/usecases"
	"github.com/samirrijal/ridemap/internal/pkg/config"
	"github.com/samirrijal/ridemap/internal/pkg/logging"
	"github.com/samirrijal/ridemap/internal/pkg/telemetry"
)

var version = "dev"

func main() {
	cfg, err := config.Load("ridemap-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Structured logging
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	deps := &http.Dependencies{
		PublicDir: cfg.Server.PublicDir,
		RateLimit: cfg.Server.RateLimit,
		Version:   version,
	}

	// Database (route registry source)
	var routeRepo ports.RouteRepository
	if cfg.Registry.Source == "postgres" {
		db, err := postgres.New(ctx, cfg.Database.DSN())
		if err != nil {
			log.Fatalf("database: %v", err)
		}
		defer db.Close()
		deps.DB = db
		routeRepo = postgres.NewRouteRepo(db)
	}

	registry, err := bootstrap.Registry(ctx, cfg, routeRepo)
	if err != nil {
		log.Fatalf("registry: %v", err)
	}

	var opts []usecases.TrackStoreOption

	// Cache
	if cfg.Valkey.Enabled {
		cache, err := valkey.New(cfg.Valkey.Addr)
		if err != nil {
			slog.Warn("valkey unavailable", "error", err)
		} else {
			defer cache.Close()
			deps.Cache = cache
			opts = append(opts, usecases.WithSharedCache(cache, cfg.Valkey.TTLSeconds))
		}
	}

	// NATS
	if cfg.NATS.Enabled {
		nc, err := natsadapter.NewPublisher(cfg.NATS.URL)
		if err != nil {
			slog.Warn("nats unavailable", "error", err)
		} else {
			defer nc.Close()
			deps.Events = nc
			opts = append(opts, usecases.WithEventPublisher(nc))
		}
	}

	source := filesystem.New(cfg.Registry.BaseDir)
	for _, rd := range registry.All() {
		if !source.Exists(rd.Source) {
			slog.Warn("track file not found; requests for it will fail", "route_id", rd.ID, "source", rd.Source)
		}
	}

	deps.Tracks = usecases.NewTrackStore(registry, source, gpx.NewParser(), opts...)
	slog.Info("route registry loaded",
		"routes", registry.Len(),
		"default", registry.Default().ID,
		"source", cfg.Registry.Source,
	)

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    1024 * 1024, // 1 MB max request body
		AppName:      "ridemap",
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.AllowOrigins,
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
		MaxAge:       3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr, "version", version)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}
