package cache

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"skipper-service/analysis"
	"skipper-service/models"
)

// RouteCatalog is the read side of the route catalog
type RouteCatalog interface {
	GetRoute(ctx context.Context, id int64) (*models.Route, error)
	ListRoutes(ctx context.Context) ([]models.Route, error)
}

// CachedRouteCatalog wraps a RouteCatalog and keeps routes in memory for a while.
// Only catalog reads are cached; forecast and advisory calls never pass through here.
type CachedRouteCatalog struct {
	source         RouteCatalog
	routes         map[int64]routeEntry
	list           *listEntry
	mutex          sync.RWMutex
	cacheDuration  time.Duration
	cacheHitCount  int
	cacheMissCount int
	logger         *zap.SugaredLogger
	now            func() time.Time
}

// routeEntry represents a cached route with its timestamp
type routeEntry struct {
	Route     models.Route
	Timestamp time.Time
}

type listEntry struct {
	Routes    []models.Route
	Timestamp time.Time
}

// NewCachedRouteCatalog creates a new cached wrapper around a route catalog
func NewCachedRouteCatalog(source RouteCatalog, cacheDuration time.Duration, logger *zap.SugaredLogger) *CachedRouteCatalog {
	return &CachedRouteCatalog{
		source:        source,
		routes:        make(map[int64]routeEntry),
		cacheDuration: cacheDuration,
		logger:        logger,
		now:           time.Now,
	}
}

// GetRoute returns a route, using the cache when available
func (c *CachedRouteCatalog) GetRoute(ctx context.Context, id int64) (*models.Route, error) {
	c.mutex.RLock()
	entry, found := c.routes[id]
	c.mutex.RUnlock()

	if found && c.fresh(entry.Timestamp) {
		c.mutex.Lock()
		c.cacheHitCount++
		c.mutex.Unlock()

		c.logger.Debugw("Route cache hit", "route_id", id)
		return cloneRoute(entry.Route), nil
	}

	c.mutex.Lock()
	c.cacheMissCount++
	c.mutex.Unlock()

	c.logger.Debugw("Route cache miss", "route_id", id)

	route, err := c.source.GetRoute(ctx, id)
	if err != nil {
		return nil, err
	}

	c.mutex.Lock()
	c.routes[id] = routeEntry{Route: *cloneRoute(*route), Timestamp: c.now()}
	c.mutex.Unlock()

	return route, nil
}

// ListRoutes returns all routes, using the cache when available
func (c *CachedRouteCatalog) ListRoutes(ctx context.Context) ([]models.Route, error) {
	c.mutex.RLock()
	entry := c.list
	c.mutex.RUnlock()

	if entry != nil && c.fresh(entry.Timestamp) {
		c.mutex.Lock()
		c.cacheHitCount++
		c.mutex.Unlock()
		return cloneRoutes(entry.Routes), nil
	}

	c.mutex.Lock()
	c.cacheMissCount++
	c.mutex.Unlock()

	routes, err := c.source.ListRoutes(ctx)
	if err != nil {
		return nil, err
	}

	c.mutex.Lock()
	c.list = &listEntry{Routes: cloneRoutes(routes), Timestamp: c.now()}
	c.mutex.Unlock()

	return routes, nil
}

// Invalidate drops every cached entry
func (c *CachedRouteCatalog) Invalidate() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.routes = make(map[int64]routeEntry)
	c.list = nil
}

// CacheStats returns statistics about cache hits and misses
func (c *CachedRouteCatalog) CacheStats() (hits, misses int) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.cacheHitCount, c.cacheMissCount
}

func (c *CachedRouteCatalog) fresh(ts time.Time) bool {
	return c.now().Sub(ts) < c.cacheDuration
}

// cloneRoute copies a route including its coordinates, so callers never share
// memory with a cache entry.
func cloneRoute(r models.Route) *models.Route {
	if r.Coordinates != nil {
		coords := *r.Coordinates
		r.Coordinates = &coords
	}
	return &r
}

func cloneRoutes(routes []models.Route) []models.Route {
	out := make([]models.Route, len(routes))
	for i, r := range routes {
		out[i] = *cloneRoute(r)
	}
	return out
}

// Ensure CachedRouteCatalog can stand in for the catalog
var (
	_ RouteCatalog         = (*CachedRouteCatalog)(nil)
	_ analysis.RouteLookup = (*CachedRouteCatalog)(nil)
)
