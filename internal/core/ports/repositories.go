package ports

import (
	"context"

	"github.com/samirrijal/ridemap/internal/core/domain"
)

// RouteRepository lists route descriptors from persistent storage.
// It is read once at start-up to build the registry.
type RouteRepository interface {
	List(ctx context.Context) ([]domain.RouteDescriptor, error)
}

// TrackSource reads the raw content of a track file.
type TrackSource interface {
	Read(ctx context.Context, location string) ([]byte, error)
}

// TrackParser extracts the ordered points of the first track segment.
// A nil error with zero points is a valid parse of an empty segment.
type TrackParser interface {
	Parse(data []byte) (domain.Sequence, error)
}
