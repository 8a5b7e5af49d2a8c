package indicators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketlens/internal/domain/market"
)

func barsFromCloses(closes ...float64) []market.Bar {
	bars := make([]market.Bar, len(closes))
	for i, c := range closes {
		bars[i] = market.Bar{Open: c, High: c, Low: c, Close: c, Volume: 1000}
	}
	return bars
}

func TestEMA_SeedsFromFirstClose(t *testing.T) {
	assert.Equal(t, 42.5, EMA([]float64{42.5}, 20))
}

func TestEMA_Recurrence(t *testing.T) {
	// period 2 -> multiplier 2/3
	// seed 1, then 1 + (2-1)*2/3 = 5/3, then 5/3 + (3-5/3)*2/3 = 23/9
	got := EMA([]float64{1, 2, 3}, 2)
	assert.InDelta(t, 23.0/9.0, got, 1e-9)
}

func TestEMA_EmptyInput(t *testing.T) {
	assert.Zero(t, EMA(nil, 20))
	assert.Zero(t, EMA([]float64{1, 2}, 0))
}

func TestEMA_StaysWithinCloseBounds(t *testing.T) {
	sequences := [][]float64{
		{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
		{100, 90, 110, 95, 105, 99, 101, 98, 102, 97},
		{0.5, 0.5, 0.5, 0.5, 0.5},
		{3.14, 0.01, 250, 7, 7, 7, 42},
	}

	for _, closes := range sequences {
		min, max := closes[0], closes[0]
		for _, c := range closes {
			if c < min {
				min = c
			}
			if c > max {
				max = c
			}
		}
		for _, period := range []int{2, 5, len(closes)} {
			got := EMA(closes, period)
			assert.GreaterOrEqual(t, got, min)
			assert.LessOrEqual(t, got, max)
		}
	}
}

func TestComputeEMASet_PerPeriodAvailability(t *testing.T) {
	bars := barsFromCloses(make([]float64, 0)...)
	for i := 0; i < 100; i++ {
		bars = append(bars, market.Bar{Close: float64(i + 1)})
	}

	set := ComputeEMASet(bars, DefaultEMAPeriods)

	_, ok := set.Value(20)
	assert.True(t, ok, "20-period EMA should be available with 100 bars")
	_, ok = set.Value(50)
	assert.True(t, ok, "50-period EMA should be available with 100 bars")
	_, ok = set.Value(200)
	assert.False(t, ok, "200-period EMA must be unavailable with 100 bars")
}

func TestComputeEMASet_EmptySeries(t *testing.T) {
	set := ComputeEMASet(nil, DefaultEMAPeriods)
	assert.Empty(t, set)
}

func TestComputeEMASet_UsesOnlyTrailingCloses(t *testing.T) {
	// Wild prices before the trailing window must not leak into the EMA.
	bars := barsFromCloses(1e9, 1e9, 1e9)
	for i := 0; i < 20; i++ {
		bars = append(bars, market.Bar{Close: 10})
	}

	set := ComputeEMASet(bars, []int{20})
	got, ok := set.Value(20)
	require.True(t, ok)
	assert.InDelta(t, 10, got, 1e-9)
}
