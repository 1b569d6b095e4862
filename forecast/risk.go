package forecast

import (
	"strings"

	"skipper-service/models"
)

// BadWindThreshold is the wind speed (m/s) above which a slot is treated as rough.
// It is independent of the risk score brackets.
const BadWindThreshold = 6.0

// windBracket maps an upper wind bound (exclusive) to a base risk score
type windBracket struct {
	below float64
	score int
}

var windBrackets = []windBracket{
	{below: 3, score: 5},
	{below: 5, score: 15},
	{below: 7, score: 35},
	{below: 10, score: 60},
}

const maxWindScore = 85

// conditionPenalties are checked in order; only the first match applies
var conditionPenalties = []struct {
	keyword string
	penalty int
}{
	{"storm", 30},
	{"rain", 15},
	{"cloud", 5},
}

// Score computes the seasickness risk (0-100) for a wind speed and a
// lowercased sky condition.
func Score(windSpeed float64, skyMainLower string) int {
	score := maxWindScore
	for _, b := range windBrackets {
		if windSpeed < b.below {
			score = b.score
			break
		}
	}

	for _, c := range conditionPenalties {
		if strings.Contains(skyMainLower, c.keyword) {
			score += c.penalty
			break
		}
	}

	return clamp(score, 0, 100)
}

// IsBadWeather reports whether a slot warrants searching for an alternative
func IsBadWeather(p models.ForecastPoint) bool {
	return p.WindSpeed > BadWindThreshold || containsFold(p.SkyMain, "rain")
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
