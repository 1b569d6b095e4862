// Package forecast selects forecast slots, scores seasickness risk and
// synthesizes seasonal estimates beyond the live forecast horizon.
package forecast

import (
	"errors"
	"strings"

	"skipper-service/models"
)

// ErrNoData is returned when a forecast series holds no points
var ErrNoData = errors.New("no forecast data")

// GoodWindThreshold is the wind speed (m/s) below which a slot counts as calm
const GoodWindThreshold = 5.0

// ClosestSlot returns the point whose timestamp is nearest to targetTs.
// On ties the earliest-encountered point wins.
func ClosestSlot(series models.ForecastSeries, targetTs int64) (models.ForecastPoint, error) {
	best, ok := nearest(series.Points, targetTs, func(models.ForecastPoint) bool { return true })
	if !ok {
		return models.ForecastPoint{}, ErrNoData
	}
	return best, nil
}

// BetterAlternative returns the good-weather point nearest to badTs, in either
// direction. The second return value is false when no point qualifies.
func BetterAlternative(series models.ForecastSeries, badTs int64) (models.ForecastPoint, bool) {
	return nearest(series.Points, badTs, IsGoodWeather)
}

// IsGoodWeather reports whether a slot is calm and dry
func IsGoodWeather(p models.ForecastPoint) bool {
	return p.WindSpeed < GoodWindThreshold && !containsFold(p.SkyMain, "rain")
}

func nearest(points []models.ForecastPoint, ts int64, keep func(models.ForecastPoint) bool) (models.ForecastPoint, bool) {
	var (
		best     models.ForecastPoint
		bestDiff int64
		found    bool
	)
	for _, p := range points {
		if !keep(p) {
			continue
		}
		diff := absDiff(p.Timestamp, ts)
		if !found || diff < bestDiff {
			best, bestDiff, found = p, diff, true
		}
	}
	return best, found
}

func absDiff(a, b int64) int64 {
	if a > b {
		return a - b
	}
	return b - a
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), substr)
}
