// Package catalog persists the named sailing routes and their coordinates.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"skipper-service/analysis"
	"skipper-service/models"
)

const schema = `
	CREATE TABLE IF NOT EXISTS routes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		latitude REAL,
		longitude REAL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_routes_name ON routes(name);
`

// Store is a SQLite-backed route catalog
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the catalog database at dbPath
func Open(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Set pragmas for concurrent readers
	_, _ = db.Exec("PRAGMA journal_mode=WAL")
	_, _ = db.Exec("PRAGMA busy_timeout=5000")

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating routes table: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the database handle
func (s *Store) Close() error {
	return s.db.Close()
}

// GetRoute returns the route with the given id, or analysis.ErrRouteNotFound
func (s *Store) GetRoute(ctx context.Context, id int64) (*models.Route, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, latitude, longitude FROM routes WHERE id = ?`, id)

	route, err := scanRoute(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, analysis.ErrRouteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying route %d: %w", id, err)
	}
	return route, nil
}

// ListRoutes returns every route ordered by name
func (s *Store) ListRoutes(ctx context.Context) ([]models.Route, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, latitude, longitude FROM routes ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("querying routes: %w", err)
	}
	defer rows.Close()

	var routes []models.Route
	for rows.Next() {
		route, err := scanRoute(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning route: %w", err)
		}
		routes = append(routes, *route)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating routes: %w", err)
	}

	return routes, nil
}

// SaveRoute inserts a route, or updates the coordinates of an existing one
// with the same name. route.ID is set on return.
func (s *Store) SaveRoute(ctx context.Context, route *models.Route) error {
	if route.Name == "" {
		return errors.New("route name is required")
	}

	var lat, lon sql.NullFloat64
	if route.Coordinates != nil {
		lat = sql.NullFloat64{Float64: route.Coordinates.Lat, Valid: true}
		lon = sql.NullFloat64{Float64: route.Coordinates.Lon, Valid: true}
	}

	query := `
		INSERT INTO routes (name, latitude, longitude, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			latitude = excluded.latitude,
			longitude = excluded.longitude,
			updated_at = excluded.updated_at
		RETURNING id
	`

	if err := s.db.QueryRowContext(ctx, query, route.Name, lat, lon, time.Now().UTC()).Scan(&route.ID); err != nil {
		return fmt.Errorf("saving route %q: %w", route.Name, err)
	}
	return nil
}

// DeleteRoute removes a route by id
func (s *Store) DeleteRoute(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM routes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting route %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return analysis.ErrRouteNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRoute(row scanner) (*models.Route, error) {
	var (
		route    models.Route
		lat, lon sql.NullFloat64
	)
	if err := row.Scan(&route.ID, &route.Name, &lat, &lon); err != nil {
		return nil, err
	}
	if lat.Valid && lon.Valid {
		route.Coordinates = &models.Coordinates{Lat: lat.Float64, Lon: lon.Float64}
	}
	return &route, nil
}

var _ analysis.RouteLookup = (*Store)(nil)
