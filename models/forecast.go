package models

// ForecastPoint represents the weather expected at a single instant.
// Points produced by the seasonal climate model carry Seasonal = true.
type ForecastPoint struct {
	Timestamp         int64    `json:"timestamp"` // epoch seconds, UTC
	Temperature       float64  `json:"temperature"`
	FeelsLike         float64  `json:"feels_like"`
	WindSpeed         float64  `json:"wind_speed"` // m/s
	WindGust          *float64 `json:"wind_gust,omitempty"`
	SkyMain           string   `json:"sky_main"`
	SkyDescription    string   `json:"sky_description"`
	CloudCoverPercent int      `json:"cloud_cover_percent"`
	Seasonal          bool     `json:"seasonal"`
}

// ForecastSeries is an ordered run of forecast points as returned by the provider.
// Insertion order is chronological; duplicate timestamps are allowed.
type ForecastSeries struct {
	Points []ForecastPoint `json:"points"`
}

// Len returns the number of points in the series
func (s ForecastSeries) Len() int {
	return len(s.Points)
}
