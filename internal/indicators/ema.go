package indicators

import "marketlens/internal/domain/market"

// DefaultEMAPeriods are the periods requested by the analysis styles.
var DefaultEMAPeriods = []int{20, 50, 200}

// EMASet maps an EMA period to its computed value.
// A period missing from the map had insufficient history; availability is
// decided per period, never coerced to zero.
type EMASet map[int]float64

// Value returns the EMA for the period and whether it was computable.
func (s EMASet) Value(period int) (float64, bool) {
	v, ok := s[period]
	return v, ok
}

// EMA computes an exponential moving average over the supplied closes.
// The series seeds from the first close rather than an SMA of the first
// period values; downstream consumers depend on that seed, so it must not
// be "corrected" to a textbook EMA.
func EMA(closes []float64, period int) float64 {
	if len(closes) == 0 || period <= 0 {
		return 0
	}
	multiplier := 2.0 / float64(period+1)
	ema := closes[0]
	for _, close := range closes[1:] {
		ema = (close-ema)*multiplier + ema
	}
	return ema
}

// ComputeEMASet computes EMAs for each requested period over the most
// recent bars. Periods longer than the series are omitted from the result.
// Only the trailing period closes feed each EMA, so a 20-period EMA never
// looks further back than 20 bars.
func ComputeEMASet(bars []market.Bar, periods []int) EMASet {
	set := make(EMASet, len(periods))
	for _, period := range periods {
		if period <= 0 || len(bars) < period {
			continue
		}
		closes := make([]float64, period)
		for i, bar := range bars[len(bars)-period:] {
			closes[i] = bar.Close
		}
		set[period] = EMA(closes, period)
	}
	return set
}
