package filesystem

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// Source implements ports.TrackSource on top of an afero filesystem.
// Relative locations are resolved against baseDir.
type Source struct {
	fs      afero.Fs
	baseDir string
}

// New creates a Source reading from the operating system filesystem.
func New(baseDir string) *Source {
	return NewWithFs(afero.NewOsFs(), baseDir)
}

// NewWithFs creates a Source over an arbitrary afero filesystem.
func NewWithFs(fs afero.Fs, baseDir string) *Source {
	return &Source{fs: fs, baseDir: baseDir}
}

// Read returns the full content of the file at location.
func (s *Source) Read(ctx context.Context, location string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := s.resolve(location)
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// Exists reports whether location points at a regular file.
func (s *Source) Exists(location string) bool {
	fi, err := s.fs.Stat(s.resolve(location))
	return err == nil && fi.Mode().IsRegular()
}

func (s *Source) resolve(location string) string {
	location = strings.TrimPrefix(location, "file://")
	if filepath.IsAbs(location) || s.baseDir == "" {
		return filepath.Clean(location)
	}
	return filepath.Join(s.baseDir, location)
}
