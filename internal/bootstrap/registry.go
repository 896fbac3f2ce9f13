// Package bootstrap holds start-up wiring shared by the binaries.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/samirrijal/ridemap/internal/core/domain"
	"github.com/samirrijal/ridemap/internal/core/ports"
	"github.com/samirrijal/ridemap/internal/pkg/config"
)

// ErrNoRepository is returned when the registry source needs a database
// but none was opened.
var ErrNoRepository = errors.New("registry source postgres requires a database connection")

// Registry builds the route registry from the configured source. repo is only
// consulted when registry.source is postgres and may be nil otherwise.
func Registry(ctx context.Context, cfg *config.Config, repo ports.RouteRepository) (*domain.Registry, error) {
	var routes []domain.RouteDescriptor

	switch cfg.Registry.Source {
	case "postgres":
		if repo == nil {
			return nil, ErrNoRepository
		}
		listed, err := repo.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("list routes: %w", err)
		}
		routes = listed
	default:
		routes = cfg.RouteDescriptors()
	}

	reg, err := domain.NewRegistry(routes, cfg.Registry.DefaultRoute)
	if err != nil {
		return nil, fmt.Errorf("build registry from %s: %w", cfg.Registry.Source, err)
	}
	return reg, nil
}
