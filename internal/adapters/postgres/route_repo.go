package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/samirrijal/ridemap/internal/core/domain"
)

// RouteRepo implements ports.RouteRepository over the routes table.
type RouteRepo struct {
	db *DB
}

func NewRouteRepo(db *DB) *RouteRepo { return &RouteRepo{db: db} }

// List returns every route ordered by position.
func (r *RouteRepo) List(ctx context.Context) ([]domain.RouteDescriptor, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, source, name, description, color
		FROM routes ORDER BY position, id
	`)
	if err != nil {
		return nil, fmt.Errorf("list routes: %w", err)
	}
	defer rows.Close()

	var routes []domain.RouteDescriptor
	for rows.Next() {
		var rd domain.RouteDescriptor
		if err := rows.Scan(&rd.ID, &rd.Source, &rd.Name, &rd.Description, &rd.Color); err != nil {
			return nil, fmt.Errorf("scan route: %w", err)
		}
		routes = append(routes, rd)
	}
	return routes, rows.Err()
}

// UpsertBatch writes routes in the given order, positions starting at 0.
func (r *RouteRepo) UpsertBatch(ctx context.Context, routes []domain.RouteDescriptor) error {
	batch := &pgx.Batch{}
	for i, rd := range routes {
		batch.Queue(`
			INSERT INTO routes (id, source, name, description, color, position)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (id) DO UPDATE
			SET source = EXCLUDED.source, name = EXCLUDED.name,
			    description = EXCLUDED.description, color = EXCLUDED.color,
			    position = EXCLUDED.position
		`, rd.ID, rd.Source, rd.Name, rd.Description, rd.Color, i)
	}
	br := r.db.Pool.SendBatch(ctx, batch)
	defer br.Close()
	for range routes {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("batch exec: %w", err)
		}
	}
	return nil
}
