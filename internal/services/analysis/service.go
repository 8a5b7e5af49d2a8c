package analysis

import (
	"context"
	"strings"
	"time"

	"marketlens/internal/domain/market"
	"marketlens/internal/indicators"
	"marketlens/internal/metrics"
	"marketlens/pkg/errors"
	"marketlens/pkg/logger"
)

// historyWindow is the lookback for the daily series feeding the
// indicator engine and the market-data endpoint.
const historyWindow = 365 * 24 * time.Hour

// MarketDataProvider supplies quotes and daily history.
type MarketDataProvider interface {
	GetQuote(ctx context.Context, symbol string) (*market.Quote, error)
	GetHistorical(ctx context.Context, symbol string, from, to time.Time) ([]market.Bar, error)
}

// Generator turns a persona and prompt into analysis text.
type Generator interface {
	Generate(ctx context.Context, persona, prompt string) (string, error)
}

// Service orchestrates the analysis pipeline: fetch market data, compute
// indicators, generate analysis text, parse it into sections.
type Service struct {
	marketData MarketDataProvider
	generator  Generator
	log        *logger.Logger
	now        func() time.Time
}

// NewService creates the analysis service.
func NewService(marketData MarketDataProvider, generator Generator, log *logger.Logger) *Service {
	return &Service{
		marketData: marketData,
		generator:  generator,
		log:        log,
		now:        time.Now,
	}
}

// MarketData is the quote plus its backing daily series.
type MarketData struct {
	Quote      *market.Quote `json:"quote"`
	Historical []market.Bar  `json:"historical"`
}

// GetMarketData fetches the snapshot and one year of daily bars for a
// symbol. Quote and history are fetched concurrently.
func (s *Service) GetMarketData(ctx context.Context, symbol string) (*MarketData, error) {
	inst := market.ParseInstrument(symbol)
	if inst.Symbol == "" {
		return nil, errors.Wrap(errors.ErrInvalidInput, "empty symbol")
	}

	quote, bars, err := s.fetch(ctx, inst)
	if err != nil {
		return nil, err
	}
	return &MarketData{Quote: quote, Historical: bars}, nil
}

// Analyze runs the full pipeline for one symbol and style.
func (s *Service) Analyze(ctx context.Context, symbol string, style Style) (*Bundle, error) {
	start := s.now()
	bundle, err := s.analyze(ctx, symbol, style)

	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.AnalysisRuns.WithLabelValues(string(style), status).Inc()
	metrics.AnalysisDuration.WithLabelValues(string(style)).Observe(time.Since(start).Seconds())

	return bundle, err
}

func (s *Service) analyze(ctx context.Context, symbol string, style Style) (*Bundle, error) {
	inst := market.ParseInstrument(symbol)
	if inst.Symbol == "" {
		return nil, errors.Wrap(errors.ErrInvalidInput, "empty symbol")
	}

	quote, bars, err := s.fetch(ctx, inst)
	if err != nil {
		return nil, err
	}
	if len(bars) == 0 {
		return nil, errors.Wrapf(errors.ErrDataUnavailable, "no historical bars for %s", inst.Symbol)
	}

	ind := computeIndicators(inst, bars)

	prompt := BuildPrompt(inst, quote, ind, style)
	text, err := s.generator.Generate(ctx, Persona(style), prompt)
	if err != nil {
		return nil, errors.Wrapf(err, "generate analysis for %s", inst.Symbol)
	}
	if strings.TrimSpace(text) == "" {
		return nil, errors.Wrapf(errors.ErrGenerationFailed, "empty analysis for %s", inst.Symbol)
	}

	sections := ParseSections(text)
	s.log.Infow("analysis generated",
		"symbol", inst.DisplaySymbol(), "style", style, "sections", len(sections), "bars", len(bars))

	return &Bundle{
		Instrument: inst,
		Quote:      quote,
		Indicators: ind,
		Analysis:   text,
		Sections:   sections,
	}, nil
}

// fetch retrieves the quote and the one-year daily series concurrently.
func (s *Service) fetch(ctx context.Context, inst market.Instrument) (*market.Quote, []market.Bar, error) {
	to := s.now()
	from := to.Add(-historyWindow)

	type quoteResult struct {
		quote *market.Quote
		err   error
	}
	type barsResult struct {
		bars []market.Bar
		err  error
	}

	quoteCh := make(chan quoteResult, 1)
	barsCh := make(chan barsResult, 1)

	go func() {
		q, err := s.marketData.GetQuote(ctx, inst.Symbol)
		quoteCh <- quoteResult{quote: q, err: err}
	}()
	go func() {
		b, err := s.marketData.GetHistorical(ctx, inst.Symbol, from, to)
		barsCh <- barsResult{bars: b, err: err}
	}()

	qr := <-quoteCh
	br := <-barsCh

	if qr.err != nil {
		return nil, nil, errors.Wrapf(qr.err, "quote for %s", inst.Symbol)
	}
	if br.err != nil {
		return nil, nil, errors.Wrapf(br.err, "history for %s", inst.Symbol)
	}
	return qr.quote, br.bars, nil
}

// computeIndicators runs the full indicator set for the instrument class.
func computeIndicators(inst market.Instrument, bars []market.Bar) Indicators {
	ind := Indicators{
		EMAs:      indicators.ComputeEMASet(bars, indicators.DefaultEMAPeriods),
		Fibonacci: indicators.ComputeFibonacciLevels(bars),
	}
	if inst.IsForex() {
		fx := indicators.AnalyzeForexActivity(bars)
		ind.Forex = &fx
	} else {
		vol := indicators.AnalyzeVolumeActivity(bars)
		ind.Volume = &vol
	}
	return ind
}
