package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/samirrijal/ridemap/internal/core/domain"
)

// buildSchema creates the GraphQL schema wired to the track store.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	pointType := graphql.NewList(graphql.Float)

	boundsType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Bounds",
		Fields: graphql.Fields{
			"min_lat": &graphql.Field{Type: graphql.Float},
			"min_lon": &graphql.Field{Type: graphql.Float},
			"max_lat": &graphql.Field{Type: graphql.Float},
			"max_lon": &graphql.Field{Type: graphql.Float},
		},
	})

	// summary resolves the cached sequence of the parent map.
	summary := func(p graphql.ResolveParams) (*domain.RouteSummary, error) {
		rd, ok := p.Source.(domain.RouteDescriptor)
		if !ok {
			return nil, errors.New("unexpected map source")
		}
		return deps.Tracks.Describe(p.Context, rd.ID)
	}

	mapType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Map",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"name":        &graphql.Field{Type: graphql.String},
			"description": &graphql.Field{Type: graphql.String},
			"color":       &graphql.Field{Type: graphql.String},
			"coordinates": &graphql.Field{
				Type:        graphql.NewList(pointType),
				Description: "Ordered [lat, lon] pairs of the track",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					rd, ok := p.Source.(domain.RouteDescriptor)
					if !ok {
						return nil, errors.New("unexpected map source")
					}
					seq, err := deps.Tracks.GetCoordinates(p.Context, rd.ID)
					if err != nil {
						return nil, publicError(err)
					}
					pairs := make([][]float64, len(seq))
					for i, pt := range seq {
						pairs[i] = []float64{pt.Lat, pt.Lon}
					}
					return pairs, nil
				},
			},
			"points": &graphql.Field{
				Type: graphql.Int,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					s, err := summary(p)
					if err != nil {
						return nil, publicError(err)
					}
					return s.Points, nil
				},
			},
			"length_m": &graphql.Field{
				Type: graphql.Float,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					s, err := summary(p)
					if err != nil {
						return nil, publicError(err)
					}
					return s.LengthMeters, nil
				},
			},
			"bounds": &graphql.Field{
				Type: boundsType,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					s, err := summary(p)
					if err != nil {
						return nil, publicError(err)
					}
					return s.Bounds, nil
				},
			},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"maps": &graphql.Field{
				Type:        graphql.NewList(mapType),
				Description: "List all registered maps",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Tracks.Routes(), nil
				},
			},
			"map": &graphql.Field{
				Type:        mapType,
				Description: "Get a map by ID; omit the ID for the default map",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					reg := deps.Tracks.Registry()
					id, _ := p.Args["id"].(string)
					if id == "" {
						return reg.Default(), nil
					}
					rd, ok := reg.Lookup(id)
					if !ok {
						return nil, &domain.UnknownRouteError{RouteID: id, Available: reg.IDs()}
					}
					return rd, nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

// publicError hides server-side track failures behind the generic message.
func publicError(err error) error {
	if errors.Is(err, domain.ErrUnknownRoute) {
		return err
	}
	return errors.New(genericTrackError)
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// This would be a programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if req.Query == "" {
			return errBadRequest(c, "query is required")
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.UserContext(),
		})

		return c.JSON(result)
	}
}
