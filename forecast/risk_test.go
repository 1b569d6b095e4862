package forecast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreWindBrackets(t *testing.T) {
	tests := []struct {
		wind float64
		want int
	}{
		{0, 5},
		{2.99, 5},
		{3.0, 15},
		{4.99, 15},
		{5.0, 35},
		{6.99, 35},
		{7.0, 60},
		{9.99, 60},
		{10.0, 85},
		{25.0, 85},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Score(tt.wind, "clear"), "wind %.2f", tt.wind)
	}
}

func TestScoreConditionPenalty(t *testing.T) {
	tests := []struct {
		sky  string
		want int
	}{
		{"clear", 15},
		{"clouds", 20},
		{"rain", 30},
		{"thunderstorm", 45},
		// Only the first matching penalty applies
		{"storm rain clouds", 45},
		{"rain clouds", 30},
	}

	for _, tt := range tests {
		t.Run(tt.sky, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(4.0, tt.sky))
		})
	}
}

func TestScoreClamped(t *testing.T) {
	assert.Equal(t, 100, Score(14, "thunderstorm"))
	assert.Equal(t, 100, Score(10, "storm"))
	assert.Equal(t, 5, Score(-3, ""))
}

func TestScoreMonotonicInWind(t *testing.T) {
	for _, sky := range []string{"clear", "clouds", "rain", "thunderstorm"} {
		prev := Score(0, sky)
		for w := 0.0; w <= 20; w += 0.25 {
			s := Score(w, sky)
			assert.GreaterOrEqual(t, s, prev, "sky %s wind %.2f", sky, w)
			assert.GreaterOrEqual(t, s, 0)
			assert.LessOrEqual(t, s, 100)
			prev = s
		}
	}
}

func TestIsBadWeather(t *testing.T) {
	assert.False(t, IsBadWeather(point(0, 6.0, "Clear")))
	assert.True(t, IsBadWeather(point(0, 6.01, "Clear")))
	assert.True(t, IsBadWeather(point(0, 1.0, "Rain")))
	assert.True(t, IsBadWeather(point(0, 1.0, "light RAIN")))
	assert.False(t, IsBadWeather(point(0, 3.0, "Clouds")))
}

// A slot can be bad weather without being good weather's complement:
// wind between the two thresholds is neither good nor bad.
func TestBadAndGoodThresholdsDiffer(t *testing.T) {
	p := point(0, 5.5, "Clear")
	assert.False(t, IsBadWeather(p))
	assert.False(t, IsGoodWeather(p))
}
