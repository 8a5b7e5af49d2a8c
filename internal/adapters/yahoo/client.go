package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"marketlens/internal/adapters/config"
	"marketlens/internal/domain/market"
	"marketlens/internal/metrics"
	"marketlens/pkg/errors"
	"marketlens/pkg/logger"
)

// Client fetches quotes and daily history from Yahoo Finance.
// It owns the retry policy: up to MaxRetries attempts with linear backoff
// (step, 2*step, ...) before surfacing failure. Callers never retry.
type Client struct {
	cfg        config.MarketDataConfig
	httpClient *http.Client
	limiter    *rate.Limiter
	log        *logger.Logger
}

// NewClient creates a market data client from configuration.
func NewClient(cfg config.MarketDataConfig, log *logger.Logger) *Client {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 1
	}
	rps := cfg.RequestsPerSec
	if rps <= 0 {
		rps = 1
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		log:        log,
	}
}

// GetQuote fetches the current snapshot for a symbol.
// A symbol unknown to the provider yields errors.ErrSymbolNotFound.
func (c *Client) GetQuote(ctx context.Context, symbol string) (*market.Quote, error) {
	reqURL := fmt.Sprintf("%s?symbols=%s", c.cfg.QuoteBaseURL, url.QueryEscape(symbol))

	var resp quoteResponse
	if err := c.getJSON(ctx, reqURL, &resp); err != nil {
		return nil, errors.Wrapf(err, "fetch quote for %s", symbol)
	}

	if apiErr := resp.QuoteResponse.Error; apiErr != nil {
		return nil, errors.Wrapf(errors.ErrExternal, "quote API error: %s - %s", apiErr.Code, apiErr.Description)
	}
	if len(resp.QuoteResponse.Result) == 0 {
		return nil, errors.Wrapf(errors.ErrSymbolNotFound, "no quote for %s", symbol)
	}

	r := resp.QuoteResponse.Result[0]
	return &market.Quote{
		Symbol:                     r.Symbol,
		RegularMarketPrice:         r.RegularMarketPrice,
		RegularMarketOpen:          r.RegularMarketOpen,
		RegularMarketDayHigh:       r.RegularMarketDayHigh,
		RegularMarketDayLow:        r.RegularMarketDayLow,
		RegularMarketPreviousClose: r.RegularMarketPreviousClose,
		RegularMarketVolume:        r.RegularMarketVolume,
		FiftyTwoWeekLow:            r.FiftyTwoWeekLow,
		FiftyTwoWeekHigh:           r.FiftyTwoWeekHigh,
		FiftyDayAverage:            r.FiftyDayAverage,
		TwoHundredDayAverage:       r.TwoHundredDayAverage,
		MarketCap:                  r.MarketCap,
		TrailingPE:                 r.TrailingPE,
		PriceToBook:                r.PriceToBook,
		DividendYield:              r.DividendYield,
		RegularMarketChange:        r.RegularMarketChange,
		RegularMarketChangePercent: r.RegularMarketChangePercent,
	}, nil
}

// GetHistorical fetches daily OHLCV bars for [from, to], chronological ascending.
func (c *Client) GetHistorical(ctx context.Context, symbol string, from, to time.Time) ([]market.Bar, error) {
	reqURL := fmt.Sprintf("%s/%s?period1=%d&period2=%d&interval=1d",
		c.cfg.ChartBaseURL, url.PathEscape(symbol), from.Unix(), to.Unix())

	var resp chartResponse
	if err := c.getJSON(ctx, reqURL, &resp); err != nil {
		return nil, errors.Wrapf(err, "fetch history for %s", symbol)
	}

	if apiErr := resp.Chart.Error; apiErr != nil {
		if apiErr.Code == "Not Found" {
			return nil, errors.Wrapf(errors.ErrSymbolNotFound, "no chart for %s", symbol)
		}
		return nil, errors.Wrapf(errors.ErrExternal, "chart API error: %s - %s", apiErr.Code, apiErr.Description)
	}
	if len(resp.Chart.Result) == 0 || len(resp.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, errors.Wrapf(errors.ErrDataUnavailable, "empty chart result for %s", symbol)
	}

	result := resp.Chart.Result[0]
	ohlcv := result.Indicators.Quote[0]

	bars := make([]market.Bar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(ohlcv.Close) {
			break
		}
		bar := market.Bar{
			Date:  time.Unix(ts, 0).UTC(),
			Close: ohlcv.Close[i],
		}
		// The per-field arrays can be shorter than close; missing entries stay zero.
		if i < len(ohlcv.Open) {
			bar.Open = ohlcv.Open[i]
		}
		if i < len(ohlcv.High) {
			bar.High = ohlcv.High[i]
		}
		if i < len(ohlcv.Low) {
			bar.Low = ohlcv.Low[i]
		}
		if i < len(ohlcv.Volume) {
			bar.Volume = ohlcv.Volume[i]
		}
		// Yahoo pads unclosed sessions with nulls; those decode to zero
		// and are dropped rather than fed to the indicator engine.
		if bar.Close == 0 && bar.Open == 0 {
			continue
		}
		bars = append(bars, bar)
	}

	return bars, nil
}

// Ping verifies the provider host is reachable. Any HTTP response counts;
// only transport failures are reported.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.cfg.QuoteBaseURL, nil)
	if err != nil {
		return errors.Wrap(err, "create ping request")
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "market data provider unreachable")
	}
	_ = resp.Body.Close()
	return nil
}

// getJSON performs a GET with retry and decodes the body into out.
func (c *Client) getJSON(ctx context.Context, reqURL string, out interface{}) error {
	var lastErr error

	for attempt := 1; attempt <= c.cfg.MaxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return errors.Wrap(err, "rate limiter wait")
		}

		lastErr = c.doOnce(ctx, reqURL, out)
		if lastErr == nil {
			metrics.ProviderCalls.WithLabelValues("market_data", "success").Inc()
			return nil
		}
		metrics.ProviderCalls.WithLabelValues("market_data", "error").Inc()
		// Unknown symbols will not appear on retry.
		if errors.Is(lastErr, errors.ErrSymbolNotFound) {
			return lastErr
		}

		if attempt < c.cfg.MaxRetries {
			backoff := time.Duration(attempt) * c.cfg.BackoffStep
			c.log.Warnw("market data request failed, retrying",
				"attempt", attempt, "backoff", backoff, "error", lastErr)
			select {
			case <-ctx.Done():
				return errors.Wrap(ctx.Err(), "market data request cancelled")
			case <-time.After(backoff):
			}
		}
	}

	return errors.Wrapf(errors.ErrDataUnavailable, "%d attempts exhausted: %v", c.cfg.MaxRetries, lastErr)
}

func (c *Client) doOnce(ctx context.Context, reqURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return errors.Wrap(err, "create HTTP request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "marketlens/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "send request")
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "read response")
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return errors.Wrapf(errors.ErrSymbolNotFound, "provider returned 404")
	case resp.StatusCode != http.StatusOK:
		return errors.Wrapf(errors.ErrExternal, "provider returned %d: %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return errors.Wrap(err, "unmarshal response")
	}
	return nil
}
