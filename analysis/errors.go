package analysis

import (
	"errors"

	"skipper-service/datasource"
	"skipper-service/forecast"
)

// ErrConfigurationMissing is returned when route coordinates or API keys are absent
var ErrConfigurationMissing = errors.New("configuration missing")

// Error kinds surfaced to callers
const (
	KindConfigurationMissing = "configuration_missing"
	KindUpstreamUnavailable  = "upstream_unavailable"
	KindNoData               = "no_data"
	KindInternal             = "internal"
)

// Kind classifies an error returned by Analyze
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrConfigurationMissing):
		return KindConfigurationMissing
	case errors.Is(err, datasource.ErrUpstreamUnavailable):
		return KindUpstreamUnavailable
	case errors.Is(err, forecast.ErrNoData):
		return KindNoData
	default:
		return KindInternal
	}
}

// UserMessage returns the human-readable message for an error returned by Analyze
func UserMessage(err error) string {
	switch Kind(err) {
	case KindConfigurationMissing:
		return "Route coordinates or API keys are not configured."
	case KindUpstreamUnavailable:
		return "Weather data unavailable. Please try again shortly."
	case KindNoData:
		return "No forecast data is available for that date."
	default:
		return "Something went wrong while checking the weather."
	}
}
