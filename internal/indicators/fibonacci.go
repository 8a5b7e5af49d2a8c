package indicators

import "marketlens/internal/domain/market"

// FibRatios are the retracement ratios, ascending. Ratio 0 anchors support
// at the window low, ratio 1 anchors resistance at the window high.
var FibRatios = []float64{0, 0.236, 0.382, 0.5, 0.618, 0.786, 1.0}

// FibLevel is one retracement price level.
type FibLevel struct {
	Ratio float64
	Price float64
}

// FibonacciLevels spans [min close, max close] over the supplied window.
type FibonacciLevels struct {
	Low    float64
	High   float64
	Levels []FibLevel
	Valid  bool
}

// ComputeFibonacciLevels derives the seven retracement levels from the
// close extremes of the full supplied window (typically one year of daily
// bars). An empty window yields an invalid result, not a panic.
func ComputeFibonacciLevels(bars []market.Bar) FibonacciLevels {
	if len(bars) == 0 {
		return FibonacciLevels{}
	}

	low, high := bars[0].Close, bars[0].Close
	for _, bar := range bars[1:] {
		if bar.Close < low {
			low = bar.Close
		}
		if bar.Close > high {
			high = bar.Close
		}
	}

	levels := make([]FibLevel, 0, len(FibRatios))
	for _, ratio := range FibRatios {
		levels = append(levels, FibLevel{
			Ratio: ratio,
			Price: low + ratio*(high-low),
		})
	}

	return FibonacciLevels{Low: low, High: high, Levels: levels, Valid: true}
}
