package datasource

import (
	"context"
	"errors"

	"skipper-service/models"
)

// ErrUpstreamUnavailable is returned when a provider cannot be reached, or when
// the forecast provider answers with something that is not a usable forecast.
var ErrUpstreamUnavailable = errors.New("upstream provider unavailable")

// ErrMalformedResponse is returned by a TextGenerator that was reached but
// whose answer carries no usable text.
var ErrMalformedResponse = errors.New("malformed text generation response")

// ForecastSource is an interface for services that can fetch a point forecast series
type ForecastSource interface {
	// FetchForecast fetches the forecast series for a coordinate pair
	FetchForecast(ctx context.Context, lat, lon float64, apiKey string) (models.ForecastSeries, error)

	// Name returns the source's name
	Name() string
}

// TextGenerator is an interface for generative-text providers
type TextGenerator interface {
	// GenerateText sends a single prompt and returns the first candidate's text
	GenerateText(ctx context.Context, prompt, apiKey string) (string, error)

	// Name returns the generator's name
	Name() string
}

// KeyProvider supplies the credentials for the two outbound providers.
// An empty string means the key is not configured.
type KeyProvider interface {
	WeatherAPIKey() string
	TextAPIKey() string
}
