package indicators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketlens/internal/domain/market"
)

func TestComputeFibonacciLevels_EmptySeries(t *testing.T) {
	got := ComputeFibonacciLevels(nil)
	assert.False(t, got.Valid)
	assert.Empty(t, got.Levels)
}

func TestComputeFibonacciLevels_AnchorsAndMonotonicity(t *testing.T) {
	bars := barsFromCloses(5, 9, 2, 7, 8, 3)

	got := ComputeFibonacciLevels(bars)

	require.True(t, got.Valid)
	require.Len(t, got.Levels, 7)
	assert.Equal(t, 2.0, got.Low)
	assert.Equal(t, 9.0, got.High)
	assert.Equal(t, got.Low, got.Levels[0].Price)
	assert.Equal(t, got.High, got.Levels[len(got.Levels)-1].Price)

	for i := 1; i < len(got.Levels); i++ {
		assert.GreaterOrEqual(t, got.Levels[i].Price, got.Levels[i-1].Price,
			"levels must be non-decreasing in ratio order")
	}
}

func TestComputeFibonacciLevels_YearOfRisingForexCloses(t *testing.T) {
	// 252 daily closes rising monotonically from 1.0000 to 1.2000.
	const days = 252
	bars := make([]market.Bar, days)
	for i := range bars {
		close := 1.0 + 0.2*float64(i)/float64(days-1)
		bars[i] = market.Bar{Open: close, High: close, Low: close, Close: close}
	}

	got := ComputeFibonacciLevels(bars)

	require.True(t, got.Valid)
	assert.InDelta(t, 1.0000, got.Levels[0].Price, 1e-4)
	assert.InDelta(t, 1.1000, got.Levels[3].Price, 1e-4) // 50% retracement
	assert.InDelta(t, 1.2000, got.Levels[6].Price, 1e-4)
}

func TestComputeFibonacciLevels_SingleBar(t *testing.T) {
	got := ComputeFibonacciLevels(barsFromCloses(4.2))

	require.True(t, got.Valid)
	for _, level := range got.Levels {
		assert.Equal(t, 4.2, level.Price, "degenerate window collapses all levels")
	}
}
