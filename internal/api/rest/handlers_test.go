package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketlens/internal/api/health"
	"marketlens/internal/domain/market"
	"marketlens/internal/services/analysis"
	"marketlens/pkg/errors"
	"marketlens/pkg/logger"
)

type fakeService struct {
	data    *analysis.MarketData
	dataErr error

	bundle    *analysis.Bundle
	bundleErr error

	gotSymbol string
	gotStyle  analysis.Style
}

func (f *fakeService) GetMarketData(_ context.Context, symbol string) (*analysis.MarketData, error) {
	f.gotSymbol = symbol
	return f.data, f.dataErr
}

func (f *fakeService) Analyze(_ context.Context, symbol string, style analysis.Style) (*analysis.Bundle, error) {
	f.gotSymbol = symbol
	f.gotStyle = style
	return f.bundle, f.bundleErr
}

func testRouter(svc *fakeService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := logger.Get()
	healthHandler := health.New(log, "marketlens", "test")
	cfg := RouterConfig{
		ServiceName: "marketlens",
		Version:     "test",
		CORSOrigin:  "http://localhost:3000",
	}
	return NewRouter(cfg, svc, healthHandler, log)
}

func doRequest(router *gin.Engine, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	router.ServeHTTP(rec, req)
	return rec
}

func TestGetMarketData_OK(t *testing.T) {
	svc := &fakeService{
		data: &analysis.MarketData{
			Quote:      &market.Quote{Symbol: "AAPL", RegularMarketPrice: 231.5},
			Historical: []market.Bar{{Close: 231.5}},
		},
	}
	rec := doRequest(testRouter(svc), http.MethodGet, "/api/market-data/AAPL")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "AAPL", svc.gotSymbol)

	var body struct {
		Quote struct {
			Symbol             string  `json:"symbol"`
			RegularMarketPrice float64 `json:"regularMarketPrice"`
		} `json:"quote"`
		Historical []map[string]interface{} `json:"historical"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "AAPL", body.Quote.Symbol)
	assert.InDelta(t, 231.5, body.Quote.RegularMarketPrice, 1e-9)
	assert.Len(t, body.Historical, 1)
}

func TestGetMarketData_UnknownSymbol(t *testing.T) {
	svc := &fakeService{dataErr: errors.Wrap(errors.ErrSymbolNotFound, "no quote for NOPE")}
	rec := doRequest(testRouter(svc), http.MethodGet, "/api/market-data/NOPE")

	require.Equal(t, http.StatusNotFound, rec.Code)

	var body errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Error)
	assert.Contains(t, body.Message, "NOPE")
}

func TestGetAnalysis_OK(t *testing.T) {
	svc := &fakeService{
		bundle: &analysis.Bundle{
			Instrument: market.ParseInstrument("EURUSD=X"),
			Quote:      &market.Quote{Symbol: "EURUSD=X"},
			Analysis:   "[SECTION]Trading Signal[SECTION]SIGNAL: BUY",
			Sections:   []analysis.Section{{Title: "Trading Signal", Content: "SIGNAL: BUY"}},
		},
	}
	rec := doRequest(testRouter(svc), http.MethodGet, "/api/analysis/EURUSD=X?style=technical")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, analysis.StyleTechnical, svc.gotStyle)

	var body struct {
		Symbol   string             `json:"symbol"`
		Style    string             `json:"style"`
		Sections []analysis.Section `json:"sections"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	// Display symbol drops the provider suffix.
	assert.Equal(t, "EURUSD", body.Symbol)
	assert.Equal(t, "technical", body.Style)
	require.Len(t, body.Sections, 1)
	assert.Equal(t, "Trading Signal", body.Sections[0].Title)
}

func TestGetAnalysis_DefaultStyle(t *testing.T) {
	svc := &fakeService{bundle: &analysis.Bundle{Instrument: market.ParseInstrument("AAPL")}}
	rec := doRequest(testRouter(svc), http.MethodGet, "/api/analysis/AAPL")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, analysis.StyleTechnical, svc.gotStyle)
}

func TestGetAnalysis_UnknownStyle(t *testing.T) {
	svc := &fakeService{}
	rec := doRequest(testRouter(svc), http.MethodGet, "/api/analysis/AAPL?style=astrological")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetAnalysis_GenerationFailure(t *testing.T) {
	svc := &fakeService{bundleErr: errors.Wrap(errors.ErrGenerationFailed, "empty analysis")}
	rec := doRequest(testRouter(svc), http.MethodGet, "/api/analysis/AAPL")

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestCORSHeaders(t *testing.T) {
	svc := &fakeService{data: &analysis.MarketData{Quote: &market.Quote{}}}
	router := testRouter(svc)

	rec := doRequest(router, http.MethodGet, "/api/market-data/AAPL")
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))

	preflight := doRequest(router, http.MethodOptions, "/api/analysis/AAPL")
	assert.Equal(t, http.StatusNoContent, preflight.Code)
}

func TestHealthEndpoints(t *testing.T) {
	svc := &fakeService{}
	router := testRouter(svc)

	assert.Equal(t, http.StatusOK, doRequest(router, http.MethodGet, "/live").Code)
	assert.Equal(t, http.StatusOK, doRequest(router, http.MethodGet, "/ready").Code)
	assert.Equal(t, http.StatusOK, doRequest(router, http.MethodGet, "/health").Code)
}

func TestRequestIDEchoed(t *testing.T) {
	svc := &fakeService{data: &analysis.MarketData{Quote: &market.Quote{}}}
	router := testRouter(svc)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/market-data/AAPL", nil)
	req.Header.Set("X-Request-ID", "req-123")
	router.ServeHTTP(rec, req)

	assert.Equal(t, "req-123", rec.Header().Get("X-Request-ID"))
}
