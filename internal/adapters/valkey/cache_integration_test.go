//go:build integration
// +build integration

package valkey_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/samirrijal/ridemap/internal/adapters/valkey"
	"github.com/samirrijal/ridemap/internal/pkg/config"
)

func setupCache(t *testing.T) *valkey.Cache {
	t.Helper()
	cfg, err := config.Load("ridemap-test")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	cache, err := valkey.New(cfg.Valkey.Addr)
	if err != nil {
		t.Fatalf("connect valkey: %v", err)
	}
	t.Cleanup(cache.Close)
	return cache
}

func TestCache_PingSetGetDelete(t *testing.T) {
	cache := setupCache(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := cache.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}

	key := "ridemap:test:" + t.Name()
	if err := cache.Set(ctx, key, []byte(`[[1,2]]`), 60); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := cache.Get(ctx, key)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != `[[1,2]]` {
		t.Errorf("unexpected value %q", got)
	}

	if err := cache.Delete(ctx, key); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := cache.Get(ctx, key); !errors.Is(err, valkey.ErrMiss) {
		t.Errorf("expected ErrMiss after delete, got %v", err)
	}
}
