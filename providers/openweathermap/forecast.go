package openweathermap

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"skipper-service/datasource"
	"skipper-service/models"
)

const (
	// DefaultBaseURL is the OpenWeatherMap 2.5 API root
	DefaultBaseURL = "https://api.openweathermap.org/data/2.5"

	// DefaultTimeout bounds a single forecast request
	DefaultTimeout = 15 * time.Second
)

// ForecastClient fetches the 5-day / 3-hour forecast for a coordinate pair
type ForecastClient struct {
	baseURL string
	client  *http.Client
}

// Ensure ForecastClient implements ForecastSource
var _ datasource.ForecastSource = (*ForecastClient)(nil)

// NewForecastClient creates a new forecast client
func NewForecastClient() *ForecastClient {
	return &ForecastClient{
		baseURL: DefaultBaseURL,
		client: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
}

// WithBaseURL overrides the API root
func (c *ForecastClient) WithBaseURL(baseURL string) *ForecastClient {
	if baseURL != "" {
		c.baseURL = baseURL
	}
	return c
}

// WithTimeout overrides the HTTP client timeout
func (c *ForecastClient) WithTimeout(timeout time.Duration) *ForecastClient {
	if timeout > 0 {
		c.client.Timeout = timeout
	}
	return c
}

// Name returns the provider name
func (c *ForecastClient) Name() string {
	return "OpenWeatherMap"
}

// forecastResponse represents the parts of the API response we use.
// List is a pointer so that an absent list can be told apart from an empty one.
type forecastResponse struct {
	List *[]struct {
		Dt   int64 `json:"dt"`
		Main struct {
			Temp      float64 `json:"temp"`
			FeelsLike float64 `json:"feels_like"`
		} `json:"main"`
		Wind struct {
			Speed float64  `json:"speed"`
			Gust  *float64 `json:"gust"`
		} `json:"wind"`
		Weather []struct {
			Main        string `json:"main"`
			Description string `json:"description"`
		} `json:"weather"`
		Clouds struct {
			All int `json:"all"`
		} `json:"clouds"`
	} `json:"list"`
}

// FetchForecast fetches the forecast series for the given coordinates.
// Every failure wraps datasource.ErrUpstreamUnavailable.
func (c *ForecastClient) FetchForecast(ctx context.Context, lat, lon float64, apiKey string) (models.ForecastSeries, error) {
	params := url.Values{}
	params.Add("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Add("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	params.Add("appid", apiKey)
	params.Add("units", "metric")

	endpoint := fmt.Sprintf("%s/forecast?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return models.ForecastSeries{}, fmt.Errorf("%w: failed to create request: %v", datasource.ErrUpstreamUnavailable, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return models.ForecastSeries{}, fmt.Errorf("%w: failed to execute request: %v", datasource.ErrUpstreamUnavailable, redactKey(err, apiKey))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.ForecastSeries{}, fmt.Errorf("%w: failed to read response body: %v", datasource.ErrUpstreamUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return models.ForecastSeries{}, fmt.Errorf("%w: API error (status %d): %s", datasource.ErrUpstreamUnavailable, resp.StatusCode, truncate(body, 200))
	}

	var response forecastResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return models.ForecastSeries{}, fmt.Errorf("%w: failed to parse response: %v", datasource.ErrUpstreamUnavailable, err)
	}

	if response.List == nil {
		return models.ForecastSeries{}, fmt.Errorf("%w: response has no forecast list", datasource.ErrUpstreamUnavailable)
	}

	series := models.ForecastSeries{
		Points: make([]models.ForecastPoint, 0, len(*response.List)),
	}

	for _, item := range *response.List {
		skyMain, description := "", ""
		if len(item.Weather) > 0 {
			skyMain = item.Weather[0].Main
			description = item.Weather[0].Description
		}

		series.Points = append(series.Points, models.ForecastPoint{
			Timestamp:         item.Dt,
			Temperature:       item.Main.Temp,
			FeelsLike:         item.Main.FeelsLike,
			WindSpeed:         item.Wind.Speed,
			WindGust:          item.Wind.Gust,
			SkyMain:           skyMain,
			SkyDescription:    description,
			CloudCoverPercent: item.Clouds.All,
		})
	}

	return series, nil
}
