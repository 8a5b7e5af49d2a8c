package analysis

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketlens/internal/domain/market"
	"marketlens/internal/indicators"
)

func equityFixture() (market.Instrument, *market.Quote, Indicators) {
	inst := market.ParseInstrument("AAPL")
	quote := &market.Quote{
		Symbol:                     "AAPL",
		RegularMarketPrice:         231.5,
		RegularMarketPreviousClose: 229.1,
		RegularMarketDayLow:        228.4,
		RegularMarketDayHigh:       232.9,
		RegularMarketVolume:        54_321_000,
		FiftyTwoWeekLow:            164.08,
		FiftyTwoWeekHigh:           237.23,
		MarketCap:                  3.5e12,
		RegularMarketChange:        2.4,
		RegularMarketChangePercent: 1.05,
	}
	ind := Indicators{
		EMAs:      indicators.EMASet{20: 225.11, 50: 218.42},
		Volume:    &indicators.VolumeActivity{AvgVolume: 48e6, VolumeRatio: 1.13, Trend: indicators.ActivityNormal, Sufficient: true},
		Fibonacci: indicators.FibonacciLevels{Low: 164.08, High: 237.23, Valid: true, Levels: []indicators.FibLevel{{Ratio: 0, Price: 164.08}, {Ratio: 1, Price: 237.23}}},
	}
	return inst, quote, ind
}

func forexFixture() (market.Instrument, *market.Quote, Indicators) {
	inst := market.ParseInstrument("eurusd=x")
	quote := &market.Quote{
		Symbol:                     "EURUSD=X",
		RegularMarketPrice:         1.08432,
		RegularMarketPreviousClose: 1.08250,
		RegularMarketDayLow:        1.08011,
		RegularMarketDayHigh:       1.08677,
	}
	ind := Indicators{
		EMAs: indicators.EMASet{20: 1.08123, 50: 1.07891, 200: 1.07012},
		Forex: &indicators.ForexActivity{
			Volatility: 0.00512, AvgPriceChange: 0.00244, PriceChange: 0.00310,
			ActivityRatio: 1.27, TrendStrength: 1.42,
			Trend: indicators.TrendBullish, Level: indicators.ActivityNormal, Sufficient: true,
		},
		Fibonacci: indicators.FibonacciLevels{Low: 1.05, High: 1.12, Valid: true, Levels: []indicators.FibLevel{{Ratio: 0.5, Price: 1.085}}},
	}
	return inst, quote, ind
}

func TestBuildPrompt_EquityFormatting(t *testing.T) {
	inst, quote, ind := equityFixture()

	prompt := BuildPrompt(inst, quote, ind, StyleTechnical)

	assert.Contains(t, prompt, "market data for AAPL")
	assert.Contains(t, prompt, "Current Price: $231.50")
	assert.Contains(t, prompt, "Volume: 54,321,000")
	assert.Contains(t, prompt, "Market Cap: $3,500,000,000,000")
	assert.Contains(t, prompt, "EMA 20: $225.11")
	assert.Contains(t, prompt, "EMA 200: N/A (insufficient history)")
	assert.Contains(t, prompt, "Volume Ratio: 1.13 (NORMAL)")
	assert.Contains(t, prompt, "0.0% (support): $164.08")
	assert.Contains(t, prompt, "100.0% (resistance): $237.23")
}

func TestBuildPrompt_ForexFormatting(t *testing.T) {
	inst, quote, ind := forexFixture()

	prompt := BuildPrompt(inst, quote, ind, StyleTechnical)

	assert.Contains(t, prompt, "market data for EURUSD")
	assert.NotContains(t, prompt, "EURUSD=X")
	assert.Contains(t, prompt, "Current Price: 1.08432")
	assert.Contains(t, prompt, "EMA 200: 1.07012")
	assert.Contains(t, prompt, "Trend: BULLISH (+1.42% over window)")
	assert.NotContains(t, prompt, "Volume:")
	assert.NotContains(t, prompt, "Market Cap")
}

func TestBuildPrompt_StyleInstructions(t *testing.T) {
	inst, quote, ind := equityFixture()

	technical := BuildPrompt(inst, quote, ind, StyleTechnical)
	assert.Contains(t, technical, "[SECTION]Trading Signal[SECTION]")
	assert.Contains(t, technical, "BUY, SELL, or HOLD")
	assert.Contains(t, technical, "at least 1:2")

	multi := BuildPrompt(inst, quote, ind, StyleMultiHorizon)
	for _, title := range SectionTitles(StyleMultiHorizon) {
		assert.Contains(t, multi, "[SECTION]"+title+"[SECTION]")
	}
	assert.Contains(t, multi, "BUY, SELL, or NEUTRAL")
	assert.Contains(t, multi, "at least 1:3")

	general := BuildPrompt(inst, quote, ind, StyleGeneral)
	for _, title := range SectionTitles(StyleGeneral) {
		assert.Contains(t, general, "[SECTION]"+title+"[SECTION]")
	}
	assert.NotContains(t, general, "SIGNAL:")
}

func TestSectionTitles_RoundTripThroughParser(t *testing.T) {
	var b strings.Builder
	for _, title := range SectionTitles(StyleGeneral) {
		b.WriteString("[SECTION]" + title + "[SECTION]body for " + title)
	}

	sections := ParseSections(b.String())

	require.Len(t, sections, len(SectionTitles(StyleGeneral)))
	for i, title := range SectionTitles(StyleGeneral) {
		assert.Equal(t, title, sections[i].Title)
		assert.Equal(t, "body for "+title, sections[i].Content)
	}
}

func TestParseStyle(t *testing.T) {
	style, err := ParseStyle("")
	require.NoError(t, err)
	assert.Equal(t, StyleTechnical, style)

	style, err = ParseStyle("general")
	require.NoError(t, err)
	assert.Equal(t, StyleGeneral, style)

	_, err = ParseStyle("astrological")
	assert.Error(t, err)
}
