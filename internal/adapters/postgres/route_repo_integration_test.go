//go:build integration
// +build integration

package postgres_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/samirrijal/ridemap/internal/adapters/postgres"
	"github.com/samirrijal/ridemap/internal/core/domain"
	"github.com/samirrijal/ridemap/internal/pkg/config"
)

// setupTestDB connects to the configured database and creates the routes table.
func setupTestDB(t *testing.T) *postgres.DB {
	t.Helper()
	cfg, err := config.Load("ridemap-test")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(db.Close)

	ddl, err := os.ReadFile("../../../migrations/001_routes.up.sql")
	if err != nil {
		t.Fatalf("read migration: %v", err)
	}
	if _, err := db.Pool.Exec(ctx, string(ddl)); err != nil {
		t.Fatalf("apply migration: %v", err)
	}
	if _, err := db.Pool.Exec(ctx, "TRUNCATE routes"); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	return db
}

func TestRouteRepo_UpsertAndList(t *testing.T) {
	db := setupTestDB(t)
	repo := postgres.NewRouteRepo(db)
	ctx := context.Background()

	routes := []domain.RouteDescriptor{
		{ID: "b-route", Source: "b.gpx", Name: "B", Color: "blue"},
		{ID: "a-route", Source: "a.gpx", Name: "A"},
	}
	if err := repo.UpsertBatch(ctx, routes); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 routes, got %d", len(got))
	}
	// Insertion position wins over id order.
	if got[0].ID != "b-route" || got[1].ID != "a-route" {
		t.Errorf("unexpected order: %s, %s", got[0].ID, got[1].ID)
	}
	if got[0].Color != "blue" || got[0].Source != "b.gpx" {
		t.Errorf("unexpected descriptor %+v", got[0])
	}

	// Re-seeding updates in place.
	routes[1].Name = "A renamed"
	if err := repo.UpsertBatch(ctx, routes); err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	got, _ = repo.List(ctx)
	if len(got) != 2 || got[1].Name != "A renamed" {
		t.Errorf("expected update in place, got %+v", got)
	}
}
