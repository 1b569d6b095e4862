package models

// AnalysisRequest asks for a sailing-comfort assessment of a route at a moment in time.
type AnalysisRequest struct {
	RouteID         int64 `json:"route_id"`
	TargetTimestamp int64 `json:"target_timestamp"` // epoch seconds, UTC
}

// Alternative is a calmer slot suggested when the requested one looks rough
type Alternative struct {
	Timestamp        int64   `json:"timestamp"`
	WindSpeed        float64 `json:"wind_speed"`
	WeatherCondition string  `json:"weather_condition"`
}

// AnalysisResult is the payload returned to the caller on success
type AnalysisResult struct {
	Analysis         string       `json:"analysis"`
	WeatherCondition string       `json:"weather_condition"`
	WindSpeed        float64      `json:"wind_speed"`
	SeasickRisk      int          `json:"seasickness_risk"`
	Coordinates      Coordinates  `json:"coordinates"`
	RouteName        string       `json:"route_name"`
	ClimateMode      bool         `json:"climate_mode"`
	Alternative      *Alternative `json:"alternative,omitempty"`
}

// ErrorResponse is the failure payload
type ErrorResponse struct {
	Message string `json:"message"`
}
