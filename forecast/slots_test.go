package forecast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skipper-service/models"
)

func point(ts int64, wind float64, sky string) models.ForecastPoint {
	return models.ForecastPoint{Timestamp: ts, WindSpeed: wind, SkyMain: sky}
}

func series(points ...models.ForecastPoint) models.ForecastSeries {
	return models.ForecastSeries{Points: points}
}

func TestClosestSlot(t *testing.T) {
	s := series(
		point(1000, 1, "Clear"),
		point(11800, 2, "Clear"),
		point(22600, 3, "Clouds"),
	)

	tests := []struct {
		name   string
		target int64
		want   int64
	}{
		{"before first", 0, 1000},
		{"exact match", 11800, 11800},
		{"nearer to later", 18000, 22600},
		{"after last", 99999, 22600},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ClosestSlot(s, tt.target)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Timestamp)
		})
	}
}

func TestClosestSlotIsMinimal(t *testing.T) {
	s := series(
		point(5000, 1, "Clear"),
		point(100, 1, "Clear"),
		point(7300, 1, "Clear"),
		point(3200, 1, "Clear"),
	)

	for _, target := range []int64{0, 2000, 4100, 6000, 9000} {
		got, err := ClosestSlot(s, target)
		require.NoError(t, err)
		for _, p := range s.Points {
			assert.LessOrEqual(t, absDiff(got.Timestamp, target), absDiff(p.Timestamp, target))
		}
	}
}

func TestClosestSlotTieGoesToFirst(t *testing.T) {
	s := series(point(900, 1, "Clear"), point(1100, 9, "Rain"))

	got, err := ClosestSlot(s, 1000)
	require.NoError(t, err)
	assert.Equal(t, int64(900), got.Timestamp)

	reversed := series(point(1100, 9, "Rain"), point(900, 1, "Clear"))
	got, err = ClosestSlot(reversed, 1000)
	require.NoError(t, err)
	assert.Equal(t, int64(1100), got.Timestamp)
}

func TestClosestSlotEmpty(t *testing.T) {
	_, err := ClosestSlot(models.ForecastSeries{}, 1000)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestBetterAlternative(t *testing.T) {
	s := series(
		point(0, 8.0, "Clouds"),
		point(10800, 7.5, "Rain"),
		point(21600, 4.0, "Light Rain"),
		point(32400, 4.9, "Clear"),
		point(43200, 2.0, "Clouds"),
	)

	got, ok := BetterAlternative(s, 10800)
	require.True(t, ok)
	assert.Equal(t, int64(32400), got.Timestamp)
	assert.True(t, IsGoodWeather(got))
}

func TestBetterAlternativeNone(t *testing.T) {
	s := series(
		point(0, 5.0, "Clear"),
		point(10800, 3.0, "RAIN"),
	)

	_, ok := BetterAlternative(s, 0)
	assert.False(t, ok)

	_, ok = BetterAlternative(models.ForecastSeries{}, 0)
	assert.False(t, ok)
}

// The search is symmetric around the bad slot: an earlier calm slot beats a
// later one that is further away.
func TestBetterAlternativeMayPrecedeTarget(t *testing.T) {
	s := series(
		point(1000, 2.0, "Clear"),
		point(20000, 9.0, "Rain"),
		point(40000, 2.0, "Clear"),
	)

	got, ok := BetterAlternative(s, 20000)
	require.True(t, ok)
	assert.Equal(t, int64(1000), got.Timestamp)

	got, ok = BetterAlternative(s, 25000)
	require.True(t, ok)
	assert.Equal(t, int64(40000), got.Timestamp)
}

func TestIsGoodWeather(t *testing.T) {
	assert.True(t, IsGoodWeather(point(0, 4.99, "Clear")))
	assert.False(t, IsGoodWeather(point(0, 5.0, "Clear")))
	assert.False(t, IsGoodWeather(point(0, 1.0, "Freezing rain")))
	assert.True(t, IsGoodWeather(point(0, 1.0, "Drizzle")))
}
