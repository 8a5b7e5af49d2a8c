package indicators

import (
	"math"

	"marketlens/internal/domain/market"
)

// ActivityWindow is the lookback used by both activity classifiers.
const ActivityWindow = 20

// ActivityLevel classifies how busy the most recent bar is versus the window.
type ActivityLevel string

const (
	ActivityHigh   ActivityLevel = "HIGH"
	ActivityLow    ActivityLevel = "LOW"
	ActivityNormal ActivityLevel = "NORMAL"
)

// TrendDirection classifies price direction over the window.
type TrendDirection string

const (
	TrendBullish TrendDirection = "BULLISH"
	TrendBearish TrendDirection = "BEARISH"
	TrendNeutral TrendDirection = "NEUTRAL"
)

// VolumeActivity summarizes equity trading activity over the window.
type VolumeActivity struct {
	AvgVolume   float64
	VolumeRatio float64
	Trend       ActivityLevel
	Sufficient  bool
}

// ForexActivity summarizes currency pair activity over the window.
// Volume is meaningless for spot forex quotes, so activity is measured
// from candle ranges instead.
type ForexActivity struct {
	Volatility     float64
	AvgPriceChange float64
	PriceChange    float64
	ActivityRatio  float64
	TrendStrength  float64
	Trend          TrendDirection
	Level          ActivityLevel
	Sufficient     bool
}

// classifyRatio applies the shared 1.5x / 0.5x thresholds.
func classifyRatio(ratio float64) ActivityLevel {
	switch {
	case ratio >= 1.5:
		return ActivityHigh
	case ratio <= 0.5:
		return ActivityLow
	default:
		return ActivityNormal
	}
}

// AnalyzeVolumeActivity compares the latest bar's volume against the
// 20-bar average. Short series yield a neutral zeroed result rather than
// an error.
func AnalyzeVolumeActivity(bars []market.Bar) VolumeActivity {
	if len(bars) < ActivityWindow {
		return VolumeActivity{Trend: ActivityNormal}
	}

	window := bars[len(bars)-ActivityWindow:]
	var total float64
	for _, bar := range window {
		total += float64(bar.Volume)
	}
	avg := total / ActivityWindow

	var ratio float64
	if avg > 0 {
		ratio = float64(window[len(window)-1].Volume) / avg
	}

	return VolumeActivity{
		AvgVolume:   avg,
		VolumeRatio: ratio,
		Trend:       classifyRatio(ratio),
		Sufficient:  true,
	}
}

// AnalyzeForexActivity measures volatility and candle-body activity over
// the 20-bar window and classifies the trend from the window's net move.
// Short series yield a neutral zeroed result rather than an error.
func AnalyzeForexActivity(bars []market.Bar) ForexActivity {
	if len(bars) < ActivityWindow {
		return ForexActivity{Trend: TrendNeutral, Level: ActivityNormal}
	}

	window := bars[len(bars)-ActivityWindow:]

	var rangeSum, bodySum float64
	for _, bar := range window {
		rangeSum += math.Abs(bar.High - bar.Low)
		bodySum += math.Abs(bar.Close - bar.Open)
	}
	volatility := rangeSum / ActivityWindow
	avgChange := bodySum / ActivityWindow

	last := window[len(window)-1]
	currentChange := math.Abs(last.Close - last.Open)

	// A dead-flat window would divide by zero; treat it as no activity.
	var ratio float64
	level := ActivityNormal
	if avgChange > 0 {
		ratio = currentChange / avgChange
		level = classifyRatio(ratio)
	}

	var strength float64
	if first := window[0].Close; first != 0 {
		strength = (last.Close - first) / first * 100
	}

	trend := TrendNeutral
	switch {
	case strength > 1:
		trend = TrendBullish
	case strength < -1:
		trend = TrendBearish
	}

	return ForexActivity{
		Volatility:     volatility,
		AvgPriceChange: avgChange,
		PriceChange:    currentChange,
		ActivityRatio:  ratio,
		TrendStrength:  strength,
		Trend:          trend,
		Level:          level,
		Sufficient:     true,
	}
}
