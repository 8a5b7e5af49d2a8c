package analysis

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"marketlens/internal/domain/market"
	"marketlens/internal/indicators"
)

// Analyst personas sent as the system message, one per style.
const (
	personaGeneral = "You are a professional financial analyst. Provide clear, structured market analysis " +
		"for a general audience. Always format your response using the [SECTION] markers exactly as instructed."
	personaTechnical = "You are a professional technical analyst specializing in actionable trading signals. " +
		"Base every conclusion on the supplied price data and indicators. Always format your response using " +
		"the [SECTION] markers exactly as instructed."
	personaMultiHorizon = "You are a multi-timeframe trading analyst. Produce independent signals for scalping, " +
		"day trading and swing trading horizons from the same data set. Always format your response using " +
		"the [SECTION] markers exactly as instructed."
)

// Persona returns the system message for a style.
func Persona(style Style) string {
	switch style {
	case StyleGeneral:
		return personaGeneral
	case StyleMultiHorizon:
		return personaMultiHorizon
	default:
		return personaTechnical
	}
}

// SectionTitles is the fixed section contract requested from the model
// for a style. The parser does not enforce these; they document intent
// and drive the prompt instructions.
func SectionTitles(style Style) []string {
	switch style {
	case StyleGeneral:
		return []string{
			"Market Position",
			"Price Trends",
			"Key Statistics",
			"Volume Analysis",
			"Market Sentiment",
			"Risks & Opportunities",
		}
	case StyleMultiHorizon:
		return []string{
			"Scalping Signal",
			"Day Trading Signal",
			"Swing Trading Signal",
		}
	default:
		return []string{
			"Technical Summary",
			"Trading Signal",
			"Key Levels",
		}
	}
}

// BuildPrompt renders the user message: a data snapshot followed by
// style-specific output instructions. Forex prices use five decimals,
// equities two.
func BuildPrompt(inst market.Instrument, quote *market.Quote, ind Indicators, style Style) string {
	var b strings.Builder
	price := priceFormatter(inst)

	fmt.Fprintf(&b, "Analyze the following market data for %s:\n\n", inst.DisplaySymbol())

	b.WriteString("PRICE SNAPSHOT\n")
	fmt.Fprintf(&b, "Current Price: %s\n", price(quote.RegularMarketPrice))
	fmt.Fprintf(&b, "Previous Close: %s\n", price(quote.RegularMarketPreviousClose))
	fmt.Fprintf(&b, "Day Range: %s - %s\n", price(quote.RegularMarketDayLow), price(quote.RegularMarketDayHigh))
	fmt.Fprintf(&b, "52 Week Range: %s - %s\n", price(quote.FiftyTwoWeekLow), price(quote.FiftyTwoWeekHigh))
	fmt.Fprintf(&b, "Change: %+.2f (%+.2f%%)\n", quote.RegularMarketChange, quote.RegularMarketChangePercent)
	if !inst.IsForex() {
		fmt.Fprintf(&b, "Volume: %s\n", humanize.Comma(quote.RegularMarketVolume))
		if quote.MarketCap > 0 {
			fmt.Fprintf(&b, "Market Cap: $%s\n", humanize.Comma(int64(quote.MarketCap)))
		}
		if quote.TrailingPE > 0 {
			fmt.Fprintf(&b, "Trailing P/E: %.2f\n", quote.TrailingPE)
		}
	}

	b.WriteString("\nMOVING AVERAGES\n")
	for _, period := range indicators.DefaultEMAPeriods {
		if v, ok := ind.EMAs.Value(period); ok {
			fmt.Fprintf(&b, "EMA %d: %s\n", period, price(v))
		} else {
			fmt.Fprintf(&b, "EMA %d: N/A (insufficient history)\n", period)
		}
	}
	if quote.FiftyDayAverage > 0 {
		fmt.Fprintf(&b, "50 Day Average: %s\n", price(quote.FiftyDayAverage))
	}
	if quote.TwoHundredDayAverage > 0 {
		fmt.Fprintf(&b, "200 Day Average: %s\n", price(quote.TwoHundredDayAverage))
	}

	writeActivity(&b, inst, ind)
	writeFibonacci(&b, price, ind.Fibonacci)
	writeInstructions(&b, style)

	return b.String()
}

func priceFormatter(inst market.Instrument) func(float64) string {
	if inst.IsForex() {
		return func(v float64) string { return fmt.Sprintf("%.5f", v) }
	}
	return func(v float64) string { return fmt.Sprintf("$%.2f", v) }
}

func writeActivity(b *strings.Builder, inst market.Instrument, ind Indicators) {
	switch {
	case inst.IsForex() && ind.Forex != nil:
		b.WriteString("\nMARKET ACTIVITY (20-day window)\n")
		fx := ind.Forex
		if !fx.Sufficient {
			b.WriteString("Insufficient history for activity analysis.\n")
			return
		}
		fmt.Fprintf(b, "Average Daily Range: %.5f\n", fx.Volatility)
		fmt.Fprintf(b, "Average Price Change: %.5f\n", fx.AvgPriceChange)
		fmt.Fprintf(b, "Latest Price Change: %.5f\n", fx.PriceChange)
		fmt.Fprintf(b, "Activity Ratio: %.2f (%s)\n", fx.ActivityRatio, fx.Level)
		fmt.Fprintf(b, "Trend: %s (%+.2f%% over window)\n", fx.Trend, fx.TrendStrength)

	case !inst.IsForex() && ind.Volume != nil:
		b.WriteString("\nVOLUME ACTIVITY (20-day window)\n")
		vol := ind.Volume
		if !vol.Sufficient {
			b.WriteString("Insufficient history for volume analysis.\n")
			return
		}
		fmt.Fprintf(b, "Average Volume: %s\n", humanize.Comma(int64(vol.AvgVolume)))
		fmt.Fprintf(b, "Volume Ratio: %.2f (%s)\n", vol.VolumeRatio, vol.Trend)
	}
}

func writeFibonacci(b *strings.Builder, price func(float64) string, fib indicators.FibonacciLevels) {
	if !fib.Valid {
		return
	}
	b.WriteString("\nFIBONACCI RETRACEMENT (1-year close range)\n")
	for _, lvl := range fib.Levels {
		label := fmt.Sprintf("%.1f%%", lvl.Ratio*100)
		switch lvl.Ratio {
		case 0:
			label += " (support)"
		case 1:
			label += " (resistance)"
		}
		fmt.Fprintf(b, "%s: %s\n", label, price(lvl.Price))
	}
}

func writeInstructions(b *strings.Builder, style Style) {
	b.WriteString("\nFormat your response exactly as follows, using the [SECTION] marker before each title and each body:\n\n")

	switch style {
	case StyleGeneral:
		for _, title := range SectionTitles(StyleGeneral) {
			fmt.Fprintf(b, "[SECTION]%s[SECTION]\nYour analysis here\n\n", title)
		}
		b.WriteString("Keep each section concise and grounded in the data above.\n")

	case StyleMultiHorizon:
		for _, title := range SectionTitles(StyleMultiHorizon) {
			fmt.Fprintf(b, "[SECTION]%s[SECTION]\n%s\n\n", title, signalBody("BUY, SELL, or NEUTRAL"))
		}
		b.WriteString("Each signal must target a risk:reward ratio of at least 1:3. " +
			"Signals may disagree across horizons; justify each from the data above.\n")

	default:
		titles := SectionTitles(StyleTechnical)
		fmt.Fprintf(b, "[SECTION]%s[SECTION]\nYour read of trend, momentum and moving-average posture\n\n", titles[0])
		fmt.Fprintf(b, "[SECTION]%s[SECTION]\n%s\n\n", titles[1], signalBody("BUY, SELL, or HOLD"))
		fmt.Fprintf(b, "[SECTION]%s[SECTION]\nNearest support and resistance levels with the Fibonacci context\n\n", titles[2])
		b.WriteString("The signal must target a risk:reward ratio of at least 1:2.\n")
	}
}

func signalBody(signalSet string) string {
	return "SIGNAL: " + signalSet + "\n" +
		"ENTRY: price\n" +
		"STOP-LOSS: price\n" +
		"TAKE-PROFIT: price\n" +
		"R:R: ratio\n" +
		"Followed by a short rationale"
}
