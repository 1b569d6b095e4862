// Package analysis runs one sailing-comfort assessment end to end.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"skipper-service/datasource"
	"skipper-service/forecast"
	"skipper-service/metrics"
	"skipper-service/models"
)

// RouteLookup resolves a route id to its catalog entry
type RouteLookup interface {
	GetRoute(ctx context.Context, id int64) (*models.Route, error)
}

// ErrRouteNotFound is returned by RouteLookup implementations for unknown ids
var ErrRouteNotFound = errors.New("route not found")

// AdvisoryComposer writes the advisory text; it never fails
type AdvisoryComposer interface {
	Compose(ctx context.Context, selected models.ForecastPoint, alternative *models.ForecastPoint, targetTs int64, isSeasonal bool, apiKey string) string
}

// Analyzer is implemented by Orchestrator
type Analyzer interface {
	Analyze(ctx context.Context, req models.AnalysisRequest) (*models.AnalysisResult, error)
}

// Orchestrator wires route lookup, forecasting, advisory and scoring together.
// It holds no per-request state and is safe for concurrent use.
type Orchestrator struct {
	routes   RouteLookup
	source   datasource.ForecastSource
	composer AdvisoryComposer
	keys     datasource.KeyProvider
	logger   *zap.SugaredLogger
	metrics  *metrics.Metrics
	now      func() time.Time
}

// Option configures an Orchestrator
type Option func(*Orchestrator)

// WithClock overrides the wall clock used for the seasonal decision
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		o.now = now
	}
}

// WithMetrics attaches collectors
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *Orchestrator) {
		o.metrics = m
	}
}

// NewOrchestrator creates an orchestrator
func NewOrchestrator(
	routes RouteLookup,
	source datasource.ForecastSource,
	composer AdvisoryComposer,
	keys datasource.KeyProvider,
	logger *zap.SugaredLogger,
	opts ...Option,
) *Orchestrator {
	o := &Orchestrator{
		routes:   routes,
		source:   source,
		composer: composer,
		keys:     keys,
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

var _ Analyzer = (*Orchestrator)(nil)

// Analyze performs a single assessment
func (o *Orchestrator) Analyze(ctx context.Context, req models.AnalysisRequest) (*models.AnalysisResult, error) {
	began := time.Now()
	seasonal := forecast.IsSeasonal(req.TargetTimestamp, o.now())

	result, err := o.analyze(ctx, req, seasonal)

	outcome := "ok"
	if err != nil {
		outcome = Kind(err)
	}
	o.metrics.ObserveAnalysis(seasonal, outcome, time.Since(began).Seconds())

	return result, err
}

func (o *Orchestrator) analyze(ctx context.Context, req models.AnalysisRequest, seasonal bool) (*models.AnalysisResult, error) {
	route, err := o.routes.GetRoute(ctx, req.RouteID)
	if errors.Is(err, ErrRouteNotFound) {
		return nil, fmt.Errorf("%w: route %d not found", ErrConfigurationMissing, req.RouteID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up route %d: %w", req.RouteID, err)
	}
	if !route.HasCoordinates() {
		return nil, fmt.Errorf("%w: route %d has no coordinates", ErrConfigurationMissing, route.ID)
	}

	weatherKey, textKey := o.keys.WeatherAPIKey(), o.keys.TextAPIKey()
	if weatherKey == "" || textKey == "" {
		return nil, fmt.Errorf("%w: API keys not configured", ErrConfigurationMissing)
	}

	coords := *route.Coordinates
	log := o.logger.With("route_id", route.ID, "target_ts", req.TargetTimestamp, "climate_mode", seasonal)
	if id := RequestIDFrom(ctx); id != "" {
		log = log.With("request_id", id)
	}

	var (
		selected    models.ForecastPoint
		alternative *models.ForecastPoint
	)

	if seasonal {
		selected = forecast.Synthesize(req.TargetTimestamp)
	} else {
		series, err := o.source.FetchForecast(ctx, coords.Lat, coords.Lon, weatherKey)
		if err != nil {
			o.metrics.UpstreamFailure(o.source.Name())
			log.Warnw("Forecast fetch failed", "provider", o.source.Name(), "error", err)
			return nil, fmt.Errorf("failed to fetch forecast: %w", err)
		}

		selected, err = forecast.ClosestSlot(series, req.TargetTimestamp)
		if err != nil {
			return nil, fmt.Errorf("failed to select forecast slot: %w", err)
		}

		if forecast.IsBadWeather(selected) {
			if alt, ok := forecast.BetterAlternative(series, selected.Timestamp); ok {
				alternative = &alt
			}
		}
	}

	analysis := o.composer.Compose(ctx, selected, alternative, req.TargetTimestamp, seasonal, textKey)
	condition := strings.ToLower(selected.SkyMain)

	result := &models.AnalysisResult{
		Analysis:         analysis,
		WeatherCondition: condition,
		WindSpeed:        selected.WindSpeed,
		SeasickRisk:      forecast.Score(selected.WindSpeed, condition),
		Coordinates:      coords,
		RouteName:        route.Name,
		ClimateMode:      seasonal,
	}
	if alternative != nil {
		result.Alternative = &models.Alternative{
			Timestamp:        alternative.Timestamp,
			WindSpeed:        alternative.WindSpeed,
			WeatherCondition: strings.ToLower(alternative.SkyMain),
		}
	}

	log.Infow("Analysis complete",
		"wind_speed", result.WindSpeed,
		"risk", result.SeasickRisk,
		"alternative", alternative != nil)

	return result, nil
}
