package usecases

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/paulmach/orb/geojson"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"github.com/samirrijal/ridemap/internal/core/domain"
	"github.com/samirrijal/ridemap/internal/core/ports"
	"github.com/samirrijal/ridemap/internal/pkg/geospatial"
	"github.com/samirrijal/ridemap/internal/pkg/logging"
	"github.com/samirrijal/ridemap/internal/pkg/metrics"
	"github.com/samirrijal/ridemap/internal/pkg/telemetry"
)

const sharedKeyPrefix = "ridemap:tracks:"

// TrackStore resolves route ids to coordinate sequences. Each route's file is
// parsed at most once per process; results are kept until exit.
type TrackStore struct {
	registry *domain.Registry
	source   ports.TrackSource
	parser   ports.TrackParser

	shared    ports.CacheService
	sharedTTL int
	events    ports.EventPublisher
	tracer    trace.Tracer

	mu      sync.RWMutex
	entries map[string]domain.Sequence
	loads   singleflight.Group
}

// TrackStoreOption configures optional collaborators.
type TrackStoreOption func(*TrackStore)

// WithSharedCache adds a second-level cache consulted before reading files.
func WithSharedCache(c ports.CacheService, ttlSeconds int) TrackStoreOption {
	return func(s *TrackStore) {
		s.shared = c
		s.sharedTTL = ttlSeconds
	}
}

// WithEventPublisher publishes a TrackLoaded event after each file parse.
func WithEventPublisher(p ports.EventPublisher) TrackStoreOption {
	return func(s *TrackStore) { s.events = p }
}

// NewTrackStore creates a new TrackStore.
func NewTrackStore(registry *domain.Registry, source ports.TrackSource, parser ports.TrackParser, opts ...TrackStoreOption) *TrackStore {
	s := &TrackStore{
		registry: registry,
		source:   source,
		parser:   parser,
		tracer:   telemetry.Tracer("ridemap/tracks"),
		entries:  make(map[string]domain.Sequence, registry.Len()),
	}
	for _, o := range opts {
		o(s)
	}
	metrics.RegisteredRoutes.Set(float64(registry.Len()))
	return s
}

// Registry returns the route registry the store serves.
func (s *TrackStore) Registry() *domain.Registry { return s.registry }

// Routes returns all route descriptors in registry order.
func (s *TrackStore) Routes() []domain.RouteDescriptor { return s.registry.All() }

// GetCoordinates returns the ordered points of a route, loading and caching
// them on first use. The returned sequence is shared and must not be modified.
func (s *TrackStore) GetCoordinates(ctx context.Context, routeID string) (domain.Sequence, error) {
	rd, ok := s.registry.Lookup(routeID)
	if !ok {
		return nil, &domain.UnknownRouteError{RouteID: strings.Clone(routeID), Available: s.registry.IDs()}
	}

	// Key on the registry's copy of the id; callers may pass request-scoped strings.
	if seq, ok := s.cached(rd.ID); ok {
		metrics.TrackCacheHits.WithLabelValues("memory").Inc()
		return seq, nil
	}

	// One load per id; concurrent misses wait for the same result.
	v, err, _ := s.loads.Do(rd.ID, func() (interface{}, error) {
		if seq, ok := s.cached(rd.ID); ok {
			metrics.TrackCacheHits.WithLabelValues("memory").Inc()
			return seq, nil
		}
		return s.load(context.WithoutCancel(ctx), rd)
	})
	if err != nil {
		return nil, err
	}
	return v.(domain.Sequence), nil
}

// Cached reports whether routeID already has a cache entry.
func (s *TrackStore) Cached(routeID string) bool {
	_, ok := s.cached(routeID)
	return ok
}

// Describe returns bounds, length and point count for a route.
func (s *TrackStore) Describe(ctx context.Context, routeID string) (*domain.RouteSummary, error) {
	seq, err := s.GetCoordinates(ctx, routeID)
	if err != nil {
		return nil, err
	}
	rd, _ := s.registry.Lookup(routeID)
	sum := geospatial.Summarize(rd, seq)
	return &sum, nil
}

// Feature returns the route as a GeoJSON LineString feature.
func (s *TrackStore) Feature(ctx context.Context, routeID string) (*geojson.Feature, error) {
	seq, err := s.GetCoordinates(ctx, routeID)
	if err != nil {
		return nil, err
	}
	rd, _ := s.registry.Lookup(routeID)
	return geospatial.Feature(rd, seq), nil
}

// Warm loads every registered route and returns the failures keyed by id.
func (s *TrackStore) Warm(ctx context.Context) map[string]error {
	failed := make(map[string]error)
	for _, id := range s.registry.IDs() {
		if _, err := s.GetCoordinates(ctx, id); err != nil {
			failed[id] = err
		}
	}
	return failed
}

func (s *TrackStore) cached(routeID string) (domain.Sequence, bool) {
	s.mu.RLock()
	seq, ok := s.entries[routeID]
	s.mu.RUnlock()
	return seq, ok
}

func (s *TrackStore) put(routeID string, seq domain.Sequence) {
	s.mu.Lock()
	if _, exists := s.entries[routeID]; !exists {
		s.entries[routeID] = seq
	}
	s.mu.Unlock()
	metrics.TrackPoints.WithLabelValues(routeID).Set(float64(len(seq)))
}

func (s *TrackStore) load(ctx context.Context, rd domain.RouteDescriptor) (domain.Sequence, error) {
	ctx, span := s.tracer.Start(ctx, "TrackStore.load", trace.WithAttributes(
		attribute.String("route.id", rd.ID),
	))
	defer span.End()
	log := logging.FromContext(ctx).With("route_id", rd.ID)

	if seq, ok := s.fromShared(ctx, rd.ID); ok {
		metrics.TrackCacheHits.WithLabelValues("shared").Inc()
		s.put(rd.ID, seq)
		span.SetAttributes(attribute.Int("route.points", len(seq)), attribute.Bool("cache.shared_hit", true))
		log.Debug("track restored from shared cache", "points", len(seq))
		return seq, nil
	}
	metrics.TrackCacheMisses.Inc()

	start := time.Now()
	data, err := s.source.Read(ctx, rd.Source)
	if err != nil {
		return nil, s.fail(ctx, span, &domain.SourceReadError{RouteID: rd.ID, Source: rd.Source, Err: err})
	}

	seq, err := s.parser.Parse(data)
	if err != nil {
		return nil, s.fail(ctx, span, &domain.MalformedTrackError{RouteID: rd.ID, Err: err})
	}
	if len(seq) == 0 {
		return nil, s.fail(ctx, span, &domain.EmptyTrackError{RouteID: rd.ID})
	}
	elapsed := time.Since(start)

	s.put(rd.ID, seq)
	metrics.TrackLoadDuration.WithLabelValues(rd.ID).Observe(elapsed.Seconds())
	span.SetAttributes(attribute.Int("route.points", len(seq)))

	s.toShared(ctx, rd.ID, seq)
	s.publish(ctx, rd.ID, len(seq), elapsed)

	log.Info("track loaded", "points", len(seq), "bytes", len(data), "duration", elapsed.String())
	return seq, nil
}

func (s *TrackStore) fail(ctx context.Context, span trace.Span, err error) error {
	metrics.TrackLoadErrors.WithLabelValues(domain.ErrorKind(err)).Inc()
	span.RecordError(err)
	span.SetStatus(codes.Error, domain.ErrorKind(err))
	logging.FromContext(ctx).Error("track load failed", "error", err)
	return err
}

func (s *TrackStore) fromShared(ctx context.Context, routeID string) (domain.Sequence, bool) {
	if s.shared == nil {
		return nil, false
	}
	data, err := s.shared.Get(ctx, sharedKeyPrefix+routeID)
	if err != nil || len(data) == 0 {
		return nil, false
	}
	var seq domain.Sequence
	if err := json.Unmarshal(data, &seq); err != nil || len(seq) == 0 {
		logging.FromContext(ctx).Warn("discarding unusable shared cache entry", "route_id", routeID, "error", err)
		if err := s.shared.Delete(ctx, sharedKeyPrefix+routeID); err != nil {
			logging.FromContext(ctx).Warn("shared cache delete failed", "route_id", routeID, "error", err)
		}
		return nil, false
	}
	return seq, true
}

func (s *TrackStore) toShared(ctx context.Context, routeID string, seq domain.Sequence) {
	if s.shared == nil {
		return
	}
	data, err := json.Marshal(seq)
	if err != nil {
		return
	}
	if err := s.shared.Set(ctx, sharedKeyPrefix+routeID, data, s.sharedTTL); err != nil {
		logging.FromContext(ctx).Warn("shared cache write failed", "route_id", routeID, "error", err)
	}
}

func (s *TrackStore) publish(ctx context.Context, routeID string, points int, elapsed time.Duration) {
	if s.events == nil {
		return
	}
	ev := &ports.TrackLoaded{
		RouteID:    routeID,
		Points:     points,
		DurationMs: elapsed.Milliseconds(),
		LoadedAt:   time.Now().UTC(),
	}
	if err := s.events.PublishTrackLoaded(ctx, ev); err != nil {
		logging.FromContext(ctx).Warn("publish track loaded", "route_id", routeID, "error", err)
	}
}
