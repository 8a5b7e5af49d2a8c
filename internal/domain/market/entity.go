package market

import (
	"strings"
	"time"
)

// ForexSuffix is the provider-specific tag on forex pair symbols (e.g. "EURUSD=X").
const ForexSuffix = "=X"

// InstrumentClass distinguishes how an instrument is analyzed and formatted.
type InstrumentClass string

const (
	ClassEquity InstrumentClass = "equity"
	ClassForex  InstrumentClass = "forex"
)

// Instrument ties a provider symbol to its class.
// The provider symbol keeps the forex suffix; DisplaySymbol strips it.
type Instrument struct {
	Symbol string
	Class  InstrumentClass
}

// ParseInstrument classifies a symbol by its syntax.
// Symbols are upper-cased before use; the path segment is case-insensitive upstream.
func ParseInstrument(symbol string) Instrument {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	class := ClassEquity
	if strings.HasSuffix(symbol, ForexSuffix) {
		class = ClassForex
	}
	return Instrument{Symbol: symbol, Class: class}
}

// DisplaySymbol returns the symbol as shown to the model and the user.
func (i Instrument) DisplaySymbol() string {
	return strings.TrimSuffix(i.Symbol, ForexSuffix)
}

// IsForex reports whether the instrument is a currency pair.
func (i Instrument) IsForex() bool {
	return i.Class == ClassForex
}

// Bar is one daily OHLCV candle. Series are chronological ascending.
type Bar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// Quote is an instantaneous snapshot of an instrument.
// Numeric fields the provider omits are deliberately zero, never null,
// as opposed to the indicator engine's explicit "unavailable" sentinels.
type Quote struct {
	Symbol string `json:"symbol"`

	// Current market data
	RegularMarketPrice         float64 `json:"regularMarketPrice"`
	RegularMarketOpen          float64 `json:"regularMarketOpen"`
	RegularMarketDayHigh       float64 `json:"regularMarketDayHigh"`
	RegularMarketDayLow        float64 `json:"regularMarketDayLow"`
	RegularMarketPreviousClose float64 `json:"regularMarketPreviousClose"`
	RegularMarketVolume        int64   `json:"regularMarketVolume"`

	// Price metrics
	FiftyTwoWeekLow      float64 `json:"fiftyTwoWeekLow"`
	FiftyTwoWeekHigh     float64 `json:"fiftyTwoWeekHigh"`
	FiftyDayAverage      float64 `json:"fiftyDayAverage"`
	TwoHundredDayAverage float64 `json:"twoHundredDayAverage"`

	// Company metrics
	MarketCap     float64 `json:"marketCap"`
	TrailingPE    float64 `json:"trailingPE"`
	PriceToBook   float64 `json:"priceToBook"`
	DividendYield float64 `json:"dividendYield"`

	// Change metrics
	RegularMarketChange        float64 `json:"regularMarketChange"`
	RegularMarketChangePercent float64 `json:"regularMarketChangePercent"`
}
