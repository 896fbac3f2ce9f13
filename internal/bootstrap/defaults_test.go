package bootstrap_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"

	"github.com/samirrijal/ridemap/internal/adapters/filesystem"
	"github.com/samirrijal/ridemap/internal/adapters/gpx"
	"github.com/samirrijal/ridemap/internal/bootstrap"
	"github.com/samirrijal/ridemap/internal/core/usecases"
	"github.com/samirrijal/ridemap/internal/pkg/config"
)

// The default route table must resolve to the tracks shipped in the repo.
func TestDefaultRoutes_LoadShippedTracks(t *testing.T) {
	cfg, err := config.LoadWith(viper.New(), "ridemap-test")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	reg, err := bootstrap.Registry(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("registry: %v", err)
	}

	repoRoot := filepath.Join("..", "..")
	store := usecases.NewTrackStore(reg, filesystem.New(repoRoot), gpx.NewParser())

	if failed := store.Warm(context.Background()); len(failed) > 0 {
		for id, err := range failed {
			t.Errorf("%s: %v", id, err)
		}
	}
	for _, id := range reg.IDs() {
		seq, _ := store.GetCoordinates(context.Background(), id)
		if len(seq) < 2 {
			t.Errorf("%s: expected a drawable track, got %d points", id, len(seq))
		}
	}
}
