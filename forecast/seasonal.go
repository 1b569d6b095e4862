package forecast

import (
	"math"
	"time"

	"skipper-service/models"
)

// SeasonalHorizon is how far ahead the live forecast is trusted. Targets
// strictly beyond it are answered from the climate table instead.
const SeasonalHorizon = 5 * 24 * time.Hour

// MinSeasonalWind is the floor applied to synthesized wind speeds
const MinSeasonalWind = 2.0

// ClimateProfile holds long-run monthly averages for the sailing area
type ClimateProfile struct {
	MeanTemp     float64
	TempVariance float64
	MeanWind     float64
	WindVariance float64
	RainChance   int // percent
	Conditions   [3]string
}

// climateProfiles are Eastern Mediterranean monthly averages, indexed by month-1
var climateProfiles = [12]ClimateProfile{
	{MeanTemp: 13, TempVariance: 3, MeanWind: 6.0, WindVariance: 2.0, RainChance: 45, Conditions: [3]string{"Rain", "Clouds", "Clear"}},
	{MeanTemp: 13, TempVariance: 3, MeanWind: 5.8, WindVariance: 2.0, RainChance: 40, Conditions: [3]string{"Clouds", "Rain", "Clear"}},
	{MeanTemp: 15, TempVariance: 3, MeanWind: 5.2, WindVariance: 1.8, RainChance: 30, Conditions: [3]string{"Clouds", "Clear", "Rain"}},
	{MeanTemp: 18, TempVariance: 3, MeanWind: 4.6, WindVariance: 1.5, RainChance: 18, Conditions: [3]string{"Clear", "Clouds", "Clouds"}},
	{MeanTemp: 22, TempVariance: 3, MeanWind: 4.0, WindVariance: 1.2, RainChance: 8, Conditions: [3]string{"Clear", "Clear", "Clouds"}},
	{MeanTemp: 27, TempVariance: 2, MeanWind: 3.8, WindVariance: 1.0, RainChance: 3, Conditions: [3]string{"Clear", "Clear", "Clouds"}},
	{MeanTemp: 31, TempVariance: 2, MeanWind: 3.5, WindVariance: 1.0, RainChance: 2, Conditions: [3]string{"Clear", "Clear", "Clear"}},
	{MeanTemp: 31, TempVariance: 2, MeanWind: 3.6, WindVariance: 1.0, RainChance: 2, Conditions: [3]string{"Clear", "Clear", "Clouds"}},
	{MeanTemp: 28, TempVariance: 2, MeanWind: 3.9, WindVariance: 1.2, RainChance: 5, Conditions: [3]string{"Clear", "Clear", "Clouds"}},
	{MeanTemp: 24, TempVariance: 3, MeanWind: 4.5, WindVariance: 1.5, RainChance: 15, Conditions: [3]string{"Clear", "Clouds", "Clouds"}},
	{MeanTemp: 19, TempVariance: 3, MeanWind: 5.2, WindVariance: 1.8, RainChance: 30, Conditions: [3]string{"Clouds", "Rain", "Clear"}},
	{MeanTemp: 15, TempVariance: 3, MeanWind: 5.8, WindVariance: 2.0, RainChance: 42, Conditions: [3]string{"Rain", "Clouds", "Clouds"}},
}

// ProfileFor returns the climate profile for a calendar month
func ProfileFor(month time.Month) ClimateProfile {
	return climateProfiles[month-1]
}

// IsSeasonal reports whether targetTs lies strictly beyond the live horizon from now
func IsSeasonal(targetTs int64, now time.Time) bool {
	return time.Unix(targetTs, 0).Sub(now) > SeasonalHorizon
}

// Synthesize builds a deterministic forecast point for targetTs from the
// monthly climate table. The same timestamp always yields the same point.
func Synthesize(targetTs int64) models.ForecastPoint {
	t := time.Unix(targetTs, 0).UTC()
	p := ProfileFor(t.Month())
	seed := t.Day() + t.Hour()

	tempOffset := float64(seed%7 - 3)
	windOffset := float64(seed%5 - 2)

	temp := p.MeanTemp + tempOffset*p.TempVariance/3
	wind := math.Max(MinSeasonalWind, p.MeanWind+windOffset*p.WindVariance/2)

	skyMain, description := "Rain", "light rain"
	if roll := (seed * 37) % 100; roll >= p.RainChance {
		skyMain = p.Conditions[(seed*13)%3]
		description = "scattered clouds"
		if skyMain == "Clear" {
			description = "clear sky"
		}
	}

	return models.ForecastPoint{
		Timestamp:         targetTs,
		Temperature:       round1(temp),
		FeelsLike:         round1(temp),
		WindSpeed:         round1(wind),
		SkyMain:           skyMain,
		SkyDescription:    description,
		CloudCoverPercent: cloudCover(skyMain),
		Seasonal:          true,
	}
}

func cloudCover(skyMain string) int {
	switch skyMain {
	case "Clear":
		return 5
	case "Rain":
		return 90
	default:
		return 40
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
