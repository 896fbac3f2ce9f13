package domain

import (
	"fmt"
	"strings"
)

// RouteDescriptor describes a named track and where its GPX file lives.
type RouteDescriptor struct {
	ID          string `json:"id"`
	Source      string `json:"-"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color,omitempty"`
}

// RouteSummary is derived from a route's cached coordinate sequence.
type RouteSummary struct {
	Route        RouteDescriptor `json:"route"`
	Points       int             `json:"points"`
	Bounds       Bounds          `json:"bounds"`
	LengthMeters float64         `json:"length_m"`
	Start        Point           `json:"start"`
	End          Point           `json:"end"`
}

// Registry is the fixed set of routes known to the process.
// It is built once at start-up and never mutated.
type Registry struct {
	routes   []RouteDescriptor
	index    map[string]int
	defaultI int
}

// NewRegistry validates descriptors and builds a registry. defaultID selects the
// route served when a request names none; empty means the first route.
func NewRegistry(routes []RouteDescriptor, defaultID string) (*Registry, error) {
	if len(routes) == 0 {
		return nil, fmt.Errorf("registry: at least one route is required")
	}

	var errs []string
	r := &Registry{
		routes: make([]RouteDescriptor, 0, len(routes)),
		index:  make(map[string]int, len(routes)),
	}
	for i, rd := range routes {
		switch {
		case strings.TrimSpace(rd.ID) == "":
			errs = append(errs, fmt.Sprintf("routes[%d]: id is required", i))
			continue
		case strings.TrimSpace(rd.Source) == "":
			errs = append(errs, fmt.Sprintf("routes[%d] (%s): source is required", i, rd.ID))
			continue
		}
		if _, dup := r.index[rd.ID]; dup {
			errs = append(errs, fmt.Sprintf("routes[%d]: duplicate id %q", i, rd.ID))
			continue
		}
		if rd.Name == "" {
			rd.Name = rd.ID
		}
		r.index[rd.ID] = len(r.routes)
		r.routes = append(r.routes, rd)
	}

	if defaultID != "" {
		i, ok := r.index[defaultID]
		if !ok {
			errs = append(errs, fmt.Sprintf("default route %q is not registered", defaultID))
		}
		r.defaultI = i
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("registry validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return r, nil
}

// Lookup returns the descriptor for id.
func (r *Registry) Lookup(id string) (RouteDescriptor, bool) {
	i, ok := r.index[id]
	if !ok {
		return RouteDescriptor{}, false
	}
	return r.routes[i], true
}

// IDs returns every registered id in registry order.
func (r *Registry) IDs() []string {
	ids := make([]string, len(r.routes))
	for i, rd := range r.routes {
		ids[i] = rd.ID
	}
	return ids
}

// All returns a copy of every descriptor in registry order.
func (r *Registry) All() []RouteDescriptor {
	out := make([]RouteDescriptor, len(r.routes))
	copy(out, r.routes)
	return out
}

// Default returns the route served by id-less requests.
func (r *Registry) Default() RouteDescriptor {
	return r.routes[r.defaultI]
}

// Len returns the number of registered routes.
func (r *Registry) Len() int { return len(r.routes) }
