package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/ridemap/internal/core/domain"
	"github.com/samirrijal/ridemap/internal/pkg/logging"
)

// MapListItem is the public view of a route descriptor.
type MapListItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color,omitempty"`
	Default     bool   `json:"default"`
}

// DefaultCoordinatesHandler serves the registry's default route.
func DefaultCoordinatesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return writeCoordinates(c, deps, deps.Tracks.Registry().Default().ID)
	}
}

// CoordinatesHandler returns the ordered [lat, lon] pairs of a route.
// The id is read from the :mapId or :id path parameter.
func CoordinatesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("mapId", c.Params("id"))
		if id == "" {
			return errBadRequest(c, "map id is required")
		}
		return writeCoordinates(c, deps, id)
	}
}

func writeCoordinates(c *fiber.Ctx, deps *Dependencies, id string) error {
	seq, err := deps.Tracks.GetCoordinates(c.UserContext(), id)
	if err != nil {
		return trackError(c, err)
	}
	return c.JSON(seq)
}

// ListMapsHandler returns every registered map without source locations.
func ListMapsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		def := deps.Tracks.Registry().Default().ID
		routes := deps.Tracks.Routes()
		items := make([]MapListItem, len(routes))
		for i, rd := range routes {
			items[i] = MapListItem{
				ID:          rd.ID,
				Name:        rd.Name,
				Description: rd.Description,
				Color:       rd.Color,
				Default:     rd.ID == def,
			}
		}
		return c.JSON(items)
	}
}

// MapSummaryHandler returns bounds, length and point count of a map.
func MapSummaryHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sum, err := deps.Tracks.Describe(c.UserContext(), c.Params("id"))
		if err != nil {
			return trackError(c, err)
		}
		return c.JSON(sum)
	}
}

// MapGeoJSONHandler returns a map as a GeoJSON LineString feature.
func MapGeoJSONHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		f, err := deps.Tracks.Feature(c.UserContext(), c.Params("id"))
		if err != nil {
			return trackError(c, err)
		}
		data, err := f.MarshalJSON()
		if err != nil {
			return errInternal(c, "encode geojson")
		}
		c.Set(fiber.HeaderContentType, "application/geo+json")
		return c.Send(data)
	}
}

// trackError maps track store failures onto responses. Server-side causes
// are logged and replaced by a fixed message.
func trackError(c *fiber.Ctx, err error) error {
	var unknown *domain.UnknownRouteError
	if errors.As(err, &unknown) {
		return errUnknownMap(c, unknown.RouteID, unknown.Available)
	}

	logging.FromContext(c.UserContext()).Error("track request failed",
		"path", c.Path(),
		"kind", domain.ErrorKind(err),
		"error", err,
	)
	return errInternal(c, genericTrackError)
}
