package ports

import (
	"context"
	"time"
)

// TrackLoaded is emitted after a route's file has been parsed.
type TrackLoaded struct {
	RouteID    string    `json:"route_id"`
	Points     int       `json:"points"`
	DurationMs int64     `json:"duration_ms"`
	LoadedAt   time.Time `json:"loaded_at"`
}

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishTrackLoaded(ctx context.Context, ev *TrackLoaded) error
}

// CacheService provides read-through caching. ttlSeconds <= 0 means no expiry.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}
