package http

import (
	natsadapter "github.com/samirrijal/ridemap/internal/adapters/nats"
	"github.com/samirrijal/ridemap/internal/adapters/postgres"
	"github.com/samirrijal/ridemap/internal/adapters/valkey"
	"github.com/samirrijal/ridemap/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers.
// Everything except Tracks is optional.
type Dependencies struct {
	Tracks *usecases.TrackStore
	DB     *postgres.DB
	Cache  *valkey.Cache
	Events *natsadapter.Publisher

	PublicDir string // static client assets; empty disables
	SpecPath  string // OpenAPI document; empty uses DefaultSpecPath
	RateLimit int    // requests per minute per IP; 0 uses 120
	Version   string
}
