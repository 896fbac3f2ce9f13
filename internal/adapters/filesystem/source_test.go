package filesystem

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/spf13/afero"
)

func TestSource_Read(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/data/tracks/ride.gpx", []byte("<gpx/>"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		baseDir  string
		location string
	}{
		{"relative to base dir", "/data", "tracks/ride.gpx"},
		{"absolute path", "/elsewhere", "/data/tracks/ride.gpx"},
		{"file uri", "", "file:///data/tracks/ride.gpx"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := NewWithFs(fs, tt.baseDir)
			data, err := src.Read(context.Background(), tt.location)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(data) != "<gpx/>" {
				t.Errorf("unexpected content %q", data)
			}
			if !src.Exists(tt.location) {
				t.Error("expected Exists to report true")
			}
		})
	}
}

func TestSource_Read_Missing(t *testing.T) {
	src := NewWithFs(afero.NewMemMapFs(), "/data")

	_, err := src.Read(context.Background(), "nope.gpx")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist, got %v", err)
	}
	if src.Exists("nope.gpx") {
		t.Error("expected Exists to report false")
	}
}

func TestSource_Read_CancelledContext(t *testing.T) {
	fs := afero.NewMemMapFs()
	_ = afero.WriteFile(fs, "/ride.gpx", []byte("x"), 0o644)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewWithFs(fs, "/").Read(ctx, "ride.gpx"); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
