package analysis

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"skipper-service/datasource"
	"skipper-service/forecast"
	"skipper-service/metrics"
	"skipper-service/models"
)

type fakeRoutes struct {
	routes map[int64]*models.Route
	err    error
}

func (f *fakeRoutes) GetRoute(ctx context.Context, id int64) (*models.Route, error) {
	if f.err != nil {
		return nil, f.err
	}
	r, ok := f.routes[id]
	if !ok {
		return nil, ErrRouteNotFound
	}
	return r, nil
}

type countingSource struct {
	series models.ForecastSeries
	err    error
	calls  int
	lat    float64
	lon    float64
	key    string
}

func (c *countingSource) FetchForecast(ctx context.Context, lat, lon float64, apiKey string) (models.ForecastSeries, error) {
	c.calls++
	c.lat, c.lon, c.key = lat, lon, apiKey
	return c.series, c.err
}

func (c *countingSource) Name() string { return "counting" }

type countingComposer struct {
	calls       int
	selected    models.ForecastPoint
	alternative *models.ForecastPoint
	seasonal    bool
	key         string
}

func (c *countingComposer) Compose(ctx context.Context, selected models.ForecastPoint, alternative *models.ForecastPoint, targetTs int64, isSeasonal bool, apiKey string) string {
	c.calls++
	c.selected, c.alternative, c.seasonal, c.key = selected, alternative, isSeasonal, apiKey
	return "<b>advisory</b>"
}

type staticKeys struct {
	weather, text string
}

func (k staticKeys) WeatherAPIKey() string { return k.weather }
func (k staticKeys) TextAPIKey() string    { return k.text }

var (
	now = time.Date(2026, time.July, 10, 9, 0, 0, 0, time.UTC)
	t0  = time.Date(2026, time.July, 11, 12, 0, 0, 0, time.UTC).Unix()
)

func pafosRoutes() *fakeRoutes {
	return &fakeRoutes{routes: map[int64]*models.Route{
		1: {ID: 1, Name: "Latchi Blue Lagoon", Coordinates: &models.Coordinates{Lat: 34.9, Lon: 32.3}},
		2: {ID: 2, Name: "Unmapped Cove"},
	}}
}

type fixture struct {
	source   *countingSource
	composer *countingComposer
	orch     *Orchestrator
}

func newFixture(t *testing.T, routes RouteLookup, keys datasource.KeyProvider, series models.ForecastSeries) *fixture {
	f := &fixture{
		source:   &countingSource{series: series},
		composer: &countingComposer{},
	}
	f.orch = NewOrchestrator(routes, f.source, f.composer, keys, zaptest.NewLogger(t).Sugar(),
		WithClock(func() time.Time { return now }),
		WithMetrics(metrics.New()))
	return f
}

func pt(ts int64, wind float64, sky string) models.ForecastPoint {
	return models.ForecastPoint{Timestamp: ts, WindSpeed: wind, SkyMain: sky, SkyDescription: sky}
}

func TestAnalyzeCalmLiveSlot(t *testing.T) {
	series := models.ForecastSeries{Points: []models.ForecastPoint{
		pt(t0-3*3600, 6.5, "Clouds"),
		pt(t0, 2.5, "Clear"),
		pt(t0+3*3600, 4.0, "Clouds"),
	}}
	f := newFixture(t, pafosRoutes(), staticKeys{"owm", "gem"}, series)

	result, err := f.orch.Analyze(context.Background(), models.AnalysisRequest{RouteID: 1, TargetTimestamp: t0})
	require.NoError(t, err)

	assert.Equal(t, 1, f.source.calls)
	assert.Equal(t, 34.9, f.source.lat)
	assert.Equal(t, 32.3, f.source.lon)
	assert.Equal(t, "owm", f.source.key)

	assert.Equal(t, 1, f.composer.calls)
	assert.Equal(t, t0, f.composer.selected.Timestamp)
	assert.Nil(t, f.composer.alternative)
	assert.False(t, f.composer.seasonal)
	assert.Equal(t, "gem", f.composer.key)

	assert.Equal(t, "<b>advisory</b>", result.Analysis)
	assert.Equal(t, "clear", result.WeatherCondition)
	assert.Equal(t, 2.5, result.WindSpeed)
	assert.Equal(t, 5, result.SeasickRisk)
	assert.Equal(t, models.Coordinates{Lat: 34.9, Lon: 32.3}, result.Coordinates)
	assert.Equal(t, "Latchi Blue Lagoon", result.RouteName)
	assert.False(t, result.ClimateMode)
	assert.Nil(t, result.Alternative)
}

// The worked example elsewhere rates 3.0 m/s in clear sky at 5, but the wind
// brackets put 3.0 in the second band (15). The bracket table wins; 2.5 m/s is
// what lands in the 5 band (see TestAnalyzeCalmLiveSlot).
func TestAnalyzeWindAtThreeIsSecondBracket(t *testing.T) {
	series := models.ForecastSeries{Points: []models.ForecastPoint{pt(t0, 3.0, "Clear")}}
	f := newFixture(t, pafosRoutes(), staticKeys{"owm", "gem"}, series)

	result, err := f.orch.Analyze(context.Background(), models.AnalysisRequest{RouteID: 1, TargetTimestamp: t0})
	require.NoError(t, err)
	assert.Equal(t, 15, result.SeasickRisk)
	assert.Nil(t, result.Alternative)
}

func TestAnalyzeRoughSlotFindsAlternative(t *testing.T) {
	t1 := t0 + 6*3600
	series := models.ForecastSeries{Points: []models.ForecastPoint{
		pt(t0, 3.2, "Clear"),
		pt(t0+3*3600, 6.8, "Clouds"),
		pt(t1, 7.5, "Rain"),
		pt(t1+3*3600, 5.5, "Clouds"),
		pt(t1+9*3600, 2.0, "Clear"),
	}}
	f := newFixture(t, pafosRoutes(), staticKeys{"owm", "gem"}, series)

	result, err := f.orch.Analyze(context.Background(), models.AnalysisRequest{RouteID: 1, TargetTimestamp: t1})
	require.NoError(t, err)

	assert.Equal(t, "rain", result.WeatherCondition)
	assert.Equal(t, 7.5, result.WindSpeed)
	assert.Equal(t, 75, result.SeasickRisk)

	require.NotNil(t, f.composer.alternative)
	assert.Equal(t, t0, f.composer.alternative.Timestamp)

	require.NotNil(t, result.Alternative)
	assert.Equal(t, t0, result.Alternative.Timestamp)
	assert.Equal(t, 3.2, result.Alternative.WindSpeed)
	assert.Equal(t, "clear", result.Alternative.WeatherCondition)
}

func TestAnalyzeRoughSlotWithoutAlternative(t *testing.T) {
	series := models.ForecastSeries{Points: []models.ForecastPoint{
		pt(t0, 8.0, "Rain"),
		pt(t0+3*3600, 9.0, "Clouds"),
	}}
	f := newFixture(t, pafosRoutes(), staticKeys{"owm", "gem"}, series)

	result, err := f.orch.Analyze(context.Background(), models.AnalysisRequest{RouteID: 1, TargetTimestamp: t0})
	require.NoError(t, err)
	assert.Nil(t, result.Alternative)
	assert.Nil(t, f.composer.alternative)
	assert.Equal(t, 75, result.SeasickRisk)
}

func TestAnalyzeSeasonalMode(t *testing.T) {
	target := now.Add(10 * 24 * time.Hour).Unix()
	f := newFixture(t, pafosRoutes(), staticKeys{"owm", "gem"}, models.ForecastSeries{})

	result, err := f.orch.Analyze(context.Background(), models.AnalysisRequest{RouteID: 1, TargetTimestamp: target})
	require.NoError(t, err)

	expected := forecast.Synthesize(target)

	assert.Equal(t, 0, f.source.calls)
	assert.True(t, f.composer.seasonal)
	assert.True(t, f.composer.selected.Seasonal)
	assert.True(t, result.ClimateMode)
	assert.Nil(t, result.Alternative)
	assert.Nil(t, f.composer.alternative)
	assert.Equal(t, expected.WindSpeed, result.WindSpeed)
	assert.Equal(t, forecast.Score(expected.WindSpeed, result.WeatherCondition), result.SeasickRisk)
}

func TestAnalyzeSeasonalBoundary(t *testing.T) {
	series := models.ForecastSeries{Points: []models.ForecastPoint{pt(now.Unix(), 2.0, "Clear")}}
	boundary := now.Add(5 * 24 * time.Hour).Unix()

	f := newFixture(t, pafosRoutes(), staticKeys{"owm", "gem"}, series)
	result, err := f.orch.Analyze(context.Background(), models.AnalysisRequest{RouteID: 1, TargetTimestamp: boundary})
	require.NoError(t, err)
	assert.False(t, result.ClimateMode)
	assert.Equal(t, 1, f.source.calls)

	result, err = f.orch.Analyze(context.Background(), models.AnalysisRequest{RouteID: 1, TargetTimestamp: boundary + 1})
	require.NoError(t, err)
	assert.True(t, result.ClimateMode)
	assert.Equal(t, 1, f.source.calls)
}

func TestAnalyzeConfigurationMissing(t *testing.T) {
	tests := []struct {
		name    string
		routeID int64
		keys    staticKeys
	}{
		{"route without coordinates", 2, staticKeys{"owm", "gem"}},
		{"unknown route", 99, staticKeys{"owm", "gem"}},
		{"no weather key", 1, staticKeys{"", "gem"}},
		{"no text key", 1, staticKeys{"owm", ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, pafosRoutes(), tt.keys, models.ForecastSeries{Points: []models.ForecastPoint{pt(t0, 1, "Clear")}})

			result, err := f.orch.Analyze(context.Background(), models.AnalysisRequest{RouteID: tt.routeID, TargetTimestamp: t0})
			require.Error(t, err)
			assert.Nil(t, result)
			assert.ErrorIs(t, err, ErrConfigurationMissing)
			assert.Equal(t, KindConfigurationMissing, Kind(err))

			assert.Equal(t, 0, f.source.calls)
			assert.Equal(t, 0, f.composer.calls)
		})
	}
}

func TestAnalyzeUpstreamUnavailable(t *testing.T) {
	f := newFixture(t, pafosRoutes(), staticKeys{"owm", "gem"}, models.ForecastSeries{})
	f.source.err = fmt.Errorf("%w: API error (status 401)", datasource.ErrUpstreamUnavailable)

	_, err := f.orch.Analyze(context.Background(), models.AnalysisRequest{RouteID: 1, TargetTimestamp: t0})
	require.Error(t, err)
	assert.Equal(t, KindUpstreamUnavailable, Kind(err))
	assert.Equal(t, 0, f.composer.calls)
}

func TestAnalyzeNoData(t *testing.T) {
	f := newFixture(t, pafosRoutes(), staticKeys{"owm", "gem"}, models.ForecastSeries{Points: []models.ForecastPoint{}})

	_, err := f.orch.Analyze(context.Background(), models.AnalysisRequest{RouteID: 1, TargetTimestamp: t0})
	require.Error(t, err)
	assert.ErrorIs(t, err, forecast.ErrNoData)
	assert.Equal(t, KindNoData, Kind(err))
	assert.Equal(t, 0, f.composer.calls)
}

func TestAnalyzeCatalogFailure(t *testing.T) {
	routes := &fakeRoutes{err: errors.New("database is locked")}
	f := newFixture(t, routes, staticKeys{"owm", "gem"}, models.ForecastSeries{})

	_, err := f.orch.Analyze(context.Background(), models.AnalysisRequest{RouteID: 1, TargetTimestamp: t0})
	require.Error(t, err)
	assert.Equal(t, KindInternal, Kind(err))
	assert.Equal(t, 0, f.source.calls)
}

func TestAnalyzeLogsRequestID(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	series := models.ForecastSeries{Points: []models.ForecastPoint{pt(t0, 2.5, "Clear")}}
	source := &countingSource{series: series}
	orch := NewOrchestrator(pafosRoutes(), source, &countingComposer{}, staticKeys{"owm", "gem"}, zap.New(core).Sugar(),
		WithClock(func() time.Time { return now }))

	ctx := WithRequestID(context.Background(), "req-42")
	_, err := orch.Analyze(ctx, models.AnalysisRequest{RouteID: 1, TargetTimestamp: t0})
	require.NoError(t, err)

	entries := logs.FilterMessage("Analysis complete").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "req-42", entries[0].ContextMap()["request_id"])

	source.err = datasource.ErrUpstreamUnavailable
	_, err = orch.Analyze(ctx, models.AnalysisRequest{RouteID: 1, TargetTimestamp: t0})
	require.Error(t, err)

	entries = logs.FilterMessage("Forecast fetch failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "req-42", entries[0].ContextMap()["request_id"])
}

func TestUserMessage(t *testing.T) {
	assert.Contains(t, UserMessage(ErrConfigurationMissing), "not configured")
	assert.Contains(t, UserMessage(fmt.Errorf("x: %w", datasource.ErrUpstreamUnavailable)), "unavailable")
	assert.Contains(t, UserMessage(forecast.ErrNoData), "No forecast data")
	assert.NotEmpty(t, UserMessage(errors.New("boom")))
}
